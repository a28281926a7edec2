// Package main provides the entry point for rumormesh-agent.
//
// The agent runs the membership expiration core:
//
//   - Periodic sweep confirming and departing unreachable members
//   - Expiring rumor stores purged on the same cadence
//   - Badger-backed tombstone archive surviving restarts
//   - Prometheus scrape endpoint for protocol metrics
//   - Hot reload of protocol timing from the configuration file
//
// Usage:
//
//	rumormesh-agent [flags]
//	rumormesh-agent --config /path/to/config.yaml
package main
