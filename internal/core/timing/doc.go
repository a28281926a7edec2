// Package timing derives the protocol timeouts for rumormesh.
//
// Timing is a pure policy object: every duration it hands out is a
// function of the current parameter snapshot (and, when scaling is
// enabled, of the live cluster size). Parameters are swapped
// atomically, which is what makes configuration hot-reload safe
// against the sweep loop reading timeouts concurrently.
package timing
