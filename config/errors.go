// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file is not valid TOML
	// or has values of the wrong type.
	ErrInvalidConfig = errors.New("config: invalid configuration file")

	// ErrInvalidSeries indicates unusable bond series terms.
	ErrInvalidSeries = errors.New("config: invalid series terms")

	// ErrInvalidRole indicates a role holder that is not a valid identity.
	ErrInvalidRole = errors.New("config: invalid role holder")

	// ErrInvalidSettlement indicates an unknown settlement backend or a
	// missing custody account.
	ErrInvalidSettlement = errors.New("config: invalid settlement configuration")
)
