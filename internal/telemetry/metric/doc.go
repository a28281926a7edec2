// Package metric provides Prometheus metrics for rumormesh.
//
// It exposes metrics for the expiration sweep loop, member health
// transitions and rumor table sizes. All metrics live on a private
// Registry; the agent serves them through Handler.
package metric
