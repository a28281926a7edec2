// Package rumor implements rumor bookkeeping for rumormesh.
//
// Two structures live here, both shared between the sweep loop, the
// gossip receive path and the gossip send path, and both built on
// sharded locking so no path ever holds a table-wide lock:
//
//   - Store: a generic expiring mapping from rumor ID to payload,
//     instantiated once per rumor category. Entries may carry an
//     absolute expiry; PurgeExpired removes everything past a
//     deadline. Entries without an expiry are permanent.
//   - Heat: per-rumor retransmission urgency. A freshly (re)ignited
//     rumor has heat zero and is offered to peers first; the send
//     path cools rumors as it transmits them until they fall below
//     the cooldown threshold and stop being offered.
package rumor
