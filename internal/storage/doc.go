// Package storage persists departed-member tombstones in Badger.
//
// The membership protocol keeps Departed records forever so a dead
// member's stale gossip can never resurrect it. The archive extends
// that guarantee across agent restarts: tombstones are written when a
// member departs and reloaded into the roster at startup.
package storage
