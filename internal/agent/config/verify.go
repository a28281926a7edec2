// Package config defines the agent configuration structure.
package config

import (
	"os"

	"github.com/yndnr/rumormesh/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *AgentConfig) error {
	if err := verifyGossip(&cfg.Gossip); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return nil
}

func verifyGossip(cfg *GossipSection) error {
	if cfg.SuspicionTimeout <= 0 {
		return domain.ErrConfigInvalid.WithDetails("gossip.suspicion_timeout must be positive")
	}
	if cfg.DepartureTimeout <= 0 {
		return domain.ErrConfigInvalid.WithDetails("gossip.departure_timeout must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return domain.ErrConfigInvalid.WithDetails("gossip.sweep_interval must be positive")
	}
	if cfg.SweepInterval > cfg.SuspicionTimeout {
		return domain.ErrConfigInvalid.WithDetails("gossip.sweep_interval must not exceed gossip.suspicion_timeout")
	}
	if cfg.CooldownMult < 1 {
		return domain.ErrConfigInvalid.WithDetails("gossip.cooldown_mult must be at least 1")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		// Archive disabled.
		return nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return domain.ErrConfigInvalid.WithDetails("cannot create data directory").WithCause(err)
	}

	return nil
}
