// Package cmap provides a concurrent map implementation for rumormesh.
//
// This package implements a sharded concurrent map keyed by string,
// tuned for gossip bookkeeping tables that are hit from several
// goroutines at once (the sweep loop, the gossip receive path and the
// gossip send path):
//
//   - Sharding: configurable power-of-two shard count
//   - Fine-grained locking: per-shard RWMutex, no global lock
//   - Atomic read-modify-write: Update and GetOrSet run under the shard lock
//   - Bulk removal: DeleteFunc locks one shard at a time, so a purge scan
//     never stalls writers touching other shards
//
// Usage:
//
//	m := cmap.New[*Member]()
//	m.Set("member-id", member)
//	val, ok := m.Get("member-id")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has, Range) use
// RLock, write operations (Set, Delete, Update, DeleteFunc) use Lock.
package cmap
