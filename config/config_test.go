// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testAdmin  = "abababababababababababababababababababab"
	testIssuer = "1515151515151515151515151515151515151515"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Network", cfg.Network, "mainnet"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"FaceValue", cfg.Series.FaceValue, uint64(1000)},
		{"CouponRateBps", cfg.Series.CouponRateBps, uint64(500)},
		{"CouponPeriodSeconds", cfg.Series.CouponPeriodSeconds, uint64(7776000)},
		{"MaturityPeriodSeconds", cfg.Series.MaturityPeriodSeconds, uint64(94608000)},
		{"WithdrawalDelaySeconds", cfg.Series.WithdrawalDelaySeconds, uint64(2592000)},
		{"Backend", cfg.Settlement.Backend, BackendMemory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := DefaultConfig()
	original.DataDir = "/tmp/test-greenbond"
	original.Network = "testnet"
	original.LogLevel = "debug"
	original.LogFile = "/tmp/greenbond.log"
	original.Series.Name = "Solar 2029"
	original.Series.TotalSupply = 5000
	original.Roles = RolesConfig{Admin: testAdmin, Issuer: testIssuer, Verifiers: []string{testAdmin}}
	original.Settlement = SettlementConfig{
		Backend:        BackendRPC,
		Custody:        testIssuer,
		RPCURL:         "http://localhost:18545",
		RPCUser:        "u",
		RPCPassword:    "p",
		TimeoutSeconds: 5,
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"DataDir", loaded.DataDir, original.DataDir},
		{"Network", loaded.Network, original.Network},
		{"LogLevel", loaded.LogLevel, original.LogLevel},
		{"LogFile", loaded.LogFile, original.LogFile},
		{"Series", loaded.Series, original.Series},
		{"Admin", loaded.Roles.Admin, original.Roles.Admin},
		{"Issuer", loaded.Roles.Issuer, original.Roles.Issuer},
		{"Verifiers", strings.Join(loaded.Roles.Verifiers, ","), testAdmin},
		{"Settlement", loaded.Settlement, original.Settlement},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if !strings.Contains(string(data), "# greenbond configuration") {
		t.Error("saved config should contain header")
	}
	if !strings.Contains(string(data), "[series]") {
		t.Error("saved config should contain the [series] table")
	}
}

// ---------------------------------------------------------------------------
// LoadConfig tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.toml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("this is not toml\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig bad file: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigWrongType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[series]\nface_value = -5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig negative uint: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `# comment
network = "testnet"

[series]
name = "Wind 2030"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Errorf("Network = %q, want %q", cfg.Network, "testnet")
	}
	if cfg.Series.Name != "Wind 2030" {
		t.Errorf("Series.Name = %q, want %q", cfg.Series.Name, "Wind 2030")
	}
	if cfg.Series.FaceValue != 1000 {
		t.Errorf("Series.FaceValue = %d, want default 1000", cfg.Series.FaceValue)
	}
	if cfg.Settlement.Backend != BackendMemory {
		t.Errorf("Settlement.Backend = %q, want default %q", cfg.Settlement.Backend, BackendMemory)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("log_level = \"info\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GREENBOND_LOG_LEVEL", "debug")
	t.Setenv("GREENBOND_ADMIN", testAdmin)
	t.Setenv("GREENBOND_VERIFIERS", " "+testAdmin+" ,,"+testIssuer)
	t.Setenv("GREENBOND_WITHDRAWAL_DELAY_SECONDS", "60")
	t.Setenv("GREENBOND_SETTLEMENT_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Roles.Admin != testAdmin {
		t.Errorf("Roles.Admin = %q, want %q", cfg.Roles.Admin, testAdmin)
	}
	if len(cfg.Roles.Verifiers) != 2 || cfg.Roles.Verifiers[1] != testIssuer {
		t.Errorf("Roles.Verifiers = %v", cfg.Roles.Verifiers)
	}
	if cfg.Series.WithdrawalDelaySeconds != 60 {
		t.Errorf("WithdrawalDelaySeconds = %d, want 60", cfg.Series.WithdrawalDelaySeconds)
	}
	if cfg.Settlement.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want unparsable override ignored", cfg.Settlement.TimeoutSeconds)
	}
}

func TestLoadConfigMaxWithdrawalDelay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("network = \"regtest\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GREENBOND_WITHDRAWAL_DELAY_SECONDS", "18446744073709551615")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Series.WithdrawalDelaySeconds != math.MaxUint64 {
		t.Errorf("WithdrawalDelaySeconds = %d, want %d", cfg.Series.WithdrawalDelaySeconds, uint64(math.MaxUint64))
	}
	if err := ValidateConfig(*cfg); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("network = \"mainnet\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GREENBOND_ISSUER="+testIssuer+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// Registers cleanup of the variable godotenv sets.
	t.Setenv("GREENBOND_ISSUER", "")
	os.Unsetenv("GREENBOND_ISSUER")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Roles.Issuer != testIssuer {
		t.Errorf("Roles.Issuer = %q, want value from .env", cfg.Roles.Issuer)
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty_datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad_network", func(c *Config) { c.Network = "devnet" }, ErrInvalidNetwork},
		{"bad_loglevel", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"zero_face_value", func(c *Config) { c.Series.FaceValue = 0 }, ErrInvalidSeries},
		{"zero_supply", func(c *Config) { c.Series.TotalSupply = 0 }, ErrInvalidSeries},
		{"zero_coupon_period", func(c *Config) { c.Series.CouponPeriodSeconds = 0 }, ErrInvalidSeries},
		{"zero_maturity", func(c *Config) { c.Series.MaturityPeriodSeconds = 0 }, ErrInvalidSeries},
		{"bad_admin", func(c *Config) { c.Roles.Admin = "not-an-address" }, ErrInvalidRole},
		{"zero_issuer", func(c *Config) { c.Roles.Issuer = strings.Repeat("0", 40) }, ErrInvalidRole},
		{"empty_verifier", func(c *Config) { c.Roles.Verifiers = []string{""} }, ErrInvalidRole},
		{"unknown_backend", func(c *Config) { c.Settlement.Backend = "ledgerx" }, ErrInvalidSettlement},
		{"rpc_without_custody", func(c *Config) { c.Settlement.Backend = BackendRPC }, ErrInvalidSettlement},
		{"bad_custody", func(c *Config) { c.Settlement.Custody = "zz" }, ErrInvalidSettlement},
		{"timeout_overflow", func(c *Config) { c.Settlement.TimeoutSeconds = math.MaxUint64 }, ErrInvalidSettlement},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfigValidNetworks(t *testing.T) {
	for _, network := range []string{"mainnet", "testnet", "regtest"} {
		cfg := DefaultConfig()
		cfg.Network = network
		if err := ValidateConfig(cfg); err != nil {
			t.Errorf("ValidateConfig with network %q: %v", network, err)
		}
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"INFO", "Debug", "WARN", "Error"} {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig(%q) = %v, want nil", level, err)
			}
		})
	}
}

func TestValidateConfigRoles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roles = RolesConfig{Admin: testAdmin, Issuer: "0x" + testIssuer, Verifiers: []string{testAdmin}}
	cfg.Settlement.Backend = BackendRPC
	cfg.Settlement.Custody = testIssuer
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.greenbond")
	want := filepath.Join("/home/user/.greenbond", "config.toml")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestDBPath(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	if got, want := cfg.DBPath(), filepath.Join("/data", "greenbond.db"); got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
	if got, want := cfg.ArchiveDir(), filepath.Join("/data", "reports"); got != want {
		t.Errorf("ArchiveDir = %q, want %q", got, want)
	}
}

func TestDefaultDataDir_EndsWith_DotGreenbond(t *testing.T) {
	dir := DefaultDataDir()
	if !strings.HasSuffix(dir, ".greenbond") {
		t.Errorf("DefaultDataDir() = %q, want suffix %q", dir, ".greenbond")
	}
}
