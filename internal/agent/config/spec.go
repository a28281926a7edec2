// Package config defines the agent configuration structure.
package config

import (
	"time"

	"github.com/yndnr/rumormesh/internal/core/timing"
)

// AgentConfig is the root configuration for rumormesh-agent.
type AgentConfig struct {
	Gossip    GossipSection    `koanf:"gossip"`
	Storage   StorageSection   `koanf:"storage"`
	Telemetry TelemetrySection `koanf:"telemetry"`
	Log       LogSection       `koanf:"log"`
}

// GossipSection configures the failure-detection protocol.
type GossipSection struct {
	// SuspicionTimeout is how long a member may stay Suspect before
	// being Confirmed dead.
	SuspicionTimeout time.Duration `koanf:"suspicion_timeout"`

	// DepartureTimeout is how long a member may stay Confirmed before
	// being marked Departed.
	DepartureTimeout time.Duration `koanf:"departure_timeout"`

	// SweepInterval is the delay between expiration sweep cycles.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// ScaleWithClusterSize multiplies both timeouts by a logarithmic
	// factor of the roster size when set.
	ScaleWithClusterSize bool `koanf:"scale_with_cluster_size"`

	// CooldownMult is the per-log10 retransmission budget for rumor
	// heat. The effective cooldown is CooldownMult scaled by roster
	// size.
	CooldownMult int `koanf:"cooldown_mult"`
}

// StorageSection configures the departed-member archive.
type StorageSection struct {
	// DataDir is the directory holding the tombstone archive. The
	// archive is disabled when empty.
	DataDir string `koanf:"data_dir"`

	// RestoreOnStart reloads archived tombstones into the roster at
	// startup so departed members stay departed across restarts.
	RestoreOnStart bool `koanf:"restore_on_start"`
}

// TelemetrySection configures the metrics endpoint.
type TelemetrySection struct {
	// MetricsAddr is the listen address of the Prometheus scrape
	// endpoint. Disabled when empty.
	MetricsAddr string `koanf:"metrics_addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TimingParams converts the gossip section into a protocol parameter
// snapshot.
func (g GossipSection) TimingParams() timing.Params {
	return timing.Params{
		SuspicionTimeout:     g.SuspicionTimeout,
		DepartureTimeout:     g.DepartureTimeout,
		SweepInterval:        g.SweepInterval,
		ScaleWithClusterSize: g.ScaleWithClusterSize,
	}
}
