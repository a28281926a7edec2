// Package confloader loads agent configuration from layered sources
// using koanf: defaults, then a YAML file, then RUMORMESH_-prefixed
// environment variables, with later layers overriding earlier ones.
// CLI flags are applied on top by the command layer via LoadMap.
//
// The package also provides a Watcher over the configuration file so
// protocol timing can be reloaded without restarting the agent.
package confloader
