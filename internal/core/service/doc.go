// Package service wires the rumormesh core together.
//
// The Sweeper owns references to exactly its collaborators (roster,
// timing policy, heat table, category stores and the optional
// tombstone archive), all injected at construction. It runs one
// background loop on a fixed cadence that:
//
//  1. confirms members that stayed Suspect past the suspicion
//     timeout and re-ignites their membership rumor,
//  2. departs members that stayed Confirmed past the departure
//     timeout, purging all their rumor heat before re-igniting the
//     departure statement itself,
//  3. purges every expiring rumor store against a single deadline.
//
// Nothing in a cycle blocks on IO; the only suspension point is the
// inter-cycle sleep, which also observes the stop signal.
package service
