// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bitfsorg/greenbond-go/identity"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
// Empty role holders are allowed; they are required only at bootstrap.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if err := validateSeries(cfg.Series); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSeries, err)
	}

	if err := validateRoles(cfg.Roles); err != nil {
		return err
	}

	return validateSettlement(cfg.Settlement)
}

func validateSeries(s SeriesConfig) error {
	switch {
	case s.FaceValue == 0:
		return errors.New("face_value must be positive")
	case s.TotalSupply == 0:
		return errors.New("total_supply must be positive")
	case s.CouponPeriodSeconds == 0:
		return errors.New("coupon_period_seconds must be positive")
	case s.MaturityPeriodSeconds == 0:
		return errors.New("maturity_period_seconds must be positive")
	}
	return nil
}

func validateRoles(r RolesConfig) error {
	holders := map[string]string{"admin": r.Admin, "issuer": r.Issuer}
	for i, v := range r.Verifiers {
		holders[fmt.Sprintf("verifiers[%d]", i)] = v
		if v == "" {
			return fmt.Errorf("%w: verifiers[%d] is empty", ErrInvalidRole, i)
		}
	}
	for name, v := range holders {
		if v == "" {
			continue
		}
		a, err := identity.Parse(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRole, name, err)
		}
		if a.IsZero() {
			return fmt.Errorf("%w: %s is the zero identity", ErrInvalidRole, name)
		}
	}
	return nil
}

func validateSettlement(s SettlementConfig) error {
	switch s.Backend {
	case BackendMemory:
	case BackendRPC:
		if s.Custody == "" {
			return fmt.Errorf("%w: rpc backend requires custody", ErrInvalidSettlement)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidSettlement, s.Backend)
	}
	if s.TimeoutSeconds > math.MaxInt64/uint64(time.Second) {
		return fmt.Errorf("%w: timeout %d seconds out of range", ErrInvalidSettlement, s.TimeoutSeconds)
	}
	if s.Custody != "" {
		if _, err := identity.Parse(s.Custody); err != nil {
			return fmt.Errorf("%w: custody: %w", ErrInvalidSettlement, err)
		}
	}
	return nil
}
