// Package membership implements the member table for rumormesh.
//
// The Roster holds one record per known peer and is shared by three
// concurrent actors: the expiration sweep loop (time-driven
// transitions), the gossip receive path (Apply) and the gossip send
// path (reads). Every record carries its own mutex; a mutation locks
// exactly the record it touches, so a sweep scan never stalls the
// receive path and a member is always evaluated against the state it
// holds at the moment its record lock is taken.
//
// Time-driven transitions only move forward:
//
//	Suspect → Confirmed → Departed
//
// Departed is terminal for this package. Records in that state are
// kept indefinitely as tombstones so that stale, re-delivered gossip
// with an old incarnation can never resurrect a departed peer.
package membership
