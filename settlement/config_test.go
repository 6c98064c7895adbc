package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Layers(t *testing.T) {
	tests := []struct {
		name     string
		explicit *RPCConfig
		env      map[string]string
		network  string
		wantURL  string
		wantUser string
	}{
		{"preset", nil, nil, "regtest", "http://localhost:18545", "greenbond"},
		{"env_over_preset", nil, map[string]string{"GREENBOND_RPC_URL": "http://env:1"}, "testnet", "http://env:1", "greenbond"},
		{"explicit_over_env", &RPCConfig{URL: "http://file:2", User: "ops"},
			map[string]string{"GREENBOND_RPC_URL": "http://env:1"}, "testnet", "http://file:2", "ops"},
		{"mainnet_explicit", &RPCConfig{URL: "https://ledger.example"}, nil, "mainnet", "https://ledger.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ResolveConfig(tt.explicit, tt.env, tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.URL)
			assert.Equal(t, tt.wantUser, cfg.User)
			assert.Equal(t, tt.network, cfg.Network)
		})
	}
}

func TestResolveConfig_MainnetRequiresURL(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainnet")
}

func TestResolveConfig_Timeout(t *testing.T) {
	cfg, err := ResolveConfig(&RPCConfig{Timeout: 5 * time.Second}, nil, "regtest")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
