// Package config defines the agent configuration structure.
package config

import (
	"github.com/yndnr/rumormesh/internal/core/rumor"
	"github.com/yndnr/rumormesh/internal/core/timing"
)

// Default configuration values.
const (
	DefaultDataDir     = "/var/lib/rumormesh/data"
	DefaultMetricsAddr = "127.0.0.1:9638"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default agent configuration.
func Default() *AgentConfig {
	return &AgentConfig{
		Gossip: GossipSection{
			SuspicionTimeout: timing.DefaultSuspicionTimeout,
			DepartureTimeout: timing.DefaultDepartureTimeout,
			SweepInterval:    timing.DefaultSweepInterval,
			CooldownMult:     rumor.DefaultCooldown,
		},
		Storage: StorageSection{
			DataDir:        DefaultDataDir,
			RestoreOnStart: true,
		},
		Telemetry: TelemetrySection{
			MetricsAddr: DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
