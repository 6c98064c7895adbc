// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the deployment configuration of a green bond: the
// data directory, network, logging, series terms, bootstrap role holders,
// and the settlement backend.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Settlement backends.
const (
	BackendMemory = "memory"
	BackendRPC    = "rpc"
)

// Config holds the deployment configuration.
type Config struct {
	DataDir  string `toml:"data_dir"`
	Network  string `toml:"network"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	Series     SeriesConfig     `toml:"series"`
	Roles      RolesConfig      `toml:"roles"`
	Settlement SettlementConfig `toml:"settlement"`
}

// SeriesConfig holds the terms the series is issued with.
type SeriesConfig struct {
	Name                   string `toml:"name"`
	FaceValue              uint64 `toml:"face_value"`
	TotalSupply            uint64 `toml:"total_supply"`
	CouponRateBps          uint64 `toml:"coupon_rate_bps"`
	CouponPeriodSeconds    uint64 `toml:"coupon_period_seconds"`
	MaturityPeriodSeconds  uint64 `toml:"maturity_period_seconds"`
	WithdrawalDelaySeconds uint64 `toml:"withdrawal_delay_seconds"`
}

// RolesConfig names the bootstrap role holders. Values are hex public key
// hashes or base58 P2PKH addresses.
type RolesConfig struct {
	Admin     string   `toml:"admin"`
	Issuer    string   `toml:"issuer"`
	Verifiers []string `toml:"verifiers"`
}

// SettlementConfig selects the token ledger the bond settles against.
type SettlementConfig struct {
	Backend        string `toml:"backend"`
	Custody        string `toml:"custody"`
	RPCURL         string `toml:"rpc_url"`
	RPCUser        string `toml:"rpc_user"`
	RPCPassword    string `toml:"rpc_password"`
	TimeoutSeconds uint64 `toml:"timeout_seconds"`
}

// DefaultDataDir returns the default data directory (~/.greenbond).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".greenbond"
	}
	return filepath.Join(home, ".greenbond")
}

// ConfigPath returns the configuration file path within dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// DBPath returns the bbolt database path within the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "greenbond.db")
}

// ArchiveDir returns the directory holding archived impact documents.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// DefaultConfig returns a configuration with the reference series terms:
// face value 1000, 1000 units, 5% annual coupon paid per 90 days, three
// year maturity, and a 30 day emergency withdrawal delay.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "mainnet",
		LogLevel: "info",
		Series: SeriesConfig{
			Name:                   "Green Bond",
			FaceValue:              1000,
			TotalSupply:            1000,
			CouponRateBps:          500,
			CouponPeriodSeconds:    90 * 24 * 60 * 60,
			MaturityPeriodSeconds:  3 * 365 * 24 * 60 * 60,
			WithdrawalDelaySeconds: 30 * 24 * 60 * 60,
		},
		Settlement: SettlementConfig{
			Backend:        BackendMemory,
			TimeoutSeconds: 30,
		},
	}
}

// LoadConfig reads the TOML file at path on top of DefaultConfig, then
// applies a .env file next to it (if present) and GREENBOND_* environment
// overrides. The result is not validated.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Load .env if present; variables already set in the environment win.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# greenbond configuration\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}

// applyEnvOverrides overwrites fields from GREENBOND_* variables that are
// set and non-empty. RPC credentials are resolved separately by
// settlement.ResolveConfig.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.DataDir, "GREENBOND_DATA_DIR")
	setStr(&cfg.Network, "GREENBOND_NETWORK")
	setStr(&cfg.LogLevel, "GREENBOND_LOG_LEVEL")
	setStr(&cfg.LogFile, "GREENBOND_LOG_FILE")

	setStr(&cfg.Roles.Admin, "GREENBOND_ADMIN")
	setStr(&cfg.Roles.Issuer, "GREENBOND_ISSUER")
	setStringSlice(&cfg.Roles.Verifiers, "GREENBOND_VERIFIERS")

	setStr(&cfg.Settlement.Backend, "GREENBOND_SETTLEMENT_BACKEND")
	setStr(&cfg.Settlement.Custody, "GREENBOND_CUSTODY")
	setUint64(&cfg.Settlement.TimeoutSeconds, "GREENBOND_SETTLEMENT_TIMEOUT_SECONDS")

	setUint64(&cfg.Series.WithdrawalDelaySeconds, "GREENBOND_WITHDRAWAL_DELAY_SECONDS")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		*dst = cleaned
	}
}
