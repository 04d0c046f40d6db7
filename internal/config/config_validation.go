// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The church-ops Authors

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.BcryptCost <= 0 || cfg.Auth.LockoutThreshold <= 0 ||
		cfg.Auth.SessionDuration <= 0 || cfg.Auth.RememberMeDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.RateLimit.AuthWindow <= 0 || cfg.RateLimit.AuthMax <= 0 ||
		cfg.RateLimit.APIWindow <= 0 || cfg.RateLimit.APIMax <= 0 {
		return ErrInvalidRateLimitConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
