// Package config defines the agent configuration structure.
package config

// Sanitize fills zero-valued fields from the defaults so a sparse
// configuration file only needs to name what it changes. Verify still
// runs afterwards; Sanitize never rejects, only fills.
func Sanitize(cfg *AgentConfig) {
	def := Default()

	if cfg.Gossip.SuspicionTimeout == 0 {
		cfg.Gossip.SuspicionTimeout = def.Gossip.SuspicionTimeout
	}
	if cfg.Gossip.DepartureTimeout == 0 {
		cfg.Gossip.DepartureTimeout = def.Gossip.DepartureTimeout
	}
	if cfg.Gossip.SweepInterval == 0 {
		cfg.Gossip.SweepInterval = def.Gossip.SweepInterval
	}
	if cfg.Gossip.CooldownMult == 0 {
		cfg.Gossip.CooldownMult = def.Gossip.CooldownMult
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}
