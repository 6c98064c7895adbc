package settlement

import (
	"fmt"
	"time"
)

// RPCConfig holds the connection parameters for a token ledger node.
type RPCConfig struct {
	URL      string        `json:"url"`
	User     string        `json:"user"`
	Password string        `json:"password"`
	Network  string        `json:"network"`
	Timeout  time.Duration `json:"timeout"`
}

// NetworkPresets contains default RPC configurations for known networks.
// Mainnet is intentionally omitted to require explicit configuration.
var NetworkPresets = map[string]RPCConfig{
	"regtest": {URL: "http://localhost:18545", User: "greenbond", Password: "greenbond"},
	"testnet": {URL: "http://localhost:18545", User: "greenbond", Password: "greenbond"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. Explicit settings, e.g. from the config file (highest priority)
//  2. Environment variables (GREENBOND_RPC_URL, GREENBOND_RPC_USER, GREENBOND_RPC_PASS)
//  3. Network presets (lowest priority, regtest/testnet only)
//
// For mainnet, explicit configuration is required -- there is no preset.
func ResolveConfig(explicit *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env["GREENBOND_RPC_URL"]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env["GREENBOND_RPC_USER"]; ok && v != "" {
			result.User = v
		}
		if v, ok := env["GREENBOND_RPC_PASS"]; ok && v != "" {
			result.Password = v
		}
	}

	if explicit != nil {
		if explicit.URL != "" {
			result.URL = explicit.URL
		}
		if explicit.User != "" {
			result.User = explicit.User
		}
		if explicit.Password != "" {
			result.Password = explicit.Password
		}
		if explicit.Timeout > 0 {
			result.Timeout = explicit.Timeout
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("settlement: %s requires explicit RPC configuration (set rpc_url or GREENBOND_RPC_URL)", network)
	}

	return &result, nil
}
