// Package domain defines the core domain models for rumormesh.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Member: a peer as seen by the membership table, with health
//     and incarnation
//   - Health: the graduated unreachability states
//     (Alive → Suspect → Confirmed → Departed)
//   - RumorKey: the identity of a single rumor instance
//   - Rumor payloads: minimal payload shapes for each rumor category
//   - Errors: domain-specific error definitions
package domain
