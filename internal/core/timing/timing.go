package timing

import (
	"math"
	"sync/atomic"
	"time"
)

// Defaults mirror the reference protocol cadence.
const (
	DefaultSuspicionTimeout = 15 * time.Second
	DefaultDepartureTimeout = 30 * time.Second
	DefaultSweepInterval    = 500 * time.Millisecond
)

// Params is one immutable snapshot of the configured protocol
// parameters.
type Params struct {
	// SuspicionTimeout is how long a Suspect member is tolerated
	// before being Confirmed dead.
	SuspicionTimeout time.Duration

	// DepartureTimeout is how long a Confirmed member is tolerated
	// before being marked Departed.
	DepartureTimeout time.Duration

	// SweepInterval is the fixed delay between expiration sweep
	// cycles.
	SweepInterval time.Duration

	// ScaleWithClusterSize multiplies both timeouts by a logarithmic
	// factor of the live cluster size, bounding the false-positive
	// rate as the cluster grows.
	ScaleWithClusterSize bool
}

// DefaultParams returns the reference parameters.
func DefaultParams() Params {
	return Params{
		SuspicionTimeout: DefaultSuspicionTimeout,
		DepartureTimeout: DefaultDepartureTimeout,
		SweepInterval:    DefaultSweepInterval,
	}
}

// Timing computes protocol durations from the current parameter
// snapshot.
type Timing struct {
	params      atomic.Pointer[Params]
	clusterSize func() int
}

// Option configures a Timing.
type Option func(*Timing)

// WithClusterSize supplies the live cluster size used when timeout
// scaling is enabled, typically Roster.Len.
func WithClusterSize(fn func() int) Option {
	return func(t *Timing) {
		t.clusterSize = fn
	}
}

// New creates a Timing with the given parameters.
func New(params Params, opts ...Option) *Timing {
	t := &Timing{
		clusterSize: func() int { return 1 },
	}
	t.params.Store(&params)

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Update atomically swaps in a new parameter snapshot. Readers racing
// with the swap see either the old or the new snapshot, never a mix.
func (t *Timing) Update(params Params) {
	t.params.Store(&params)
}

// Current returns the active parameter snapshot.
func (t *Timing) Current() Params {
	return *t.params.Load()
}

// SuspicionTimeout returns how long a Suspect member is tolerated
// before Confirmed.
func (t *Timing) SuspicionTimeout() time.Duration {
	p := t.params.Load()
	return t.scale(p, p.SuspicionTimeout)
}

// DepartureTimeout returns how long a Confirmed member is tolerated
// before Departed.
func (t *Timing) DepartureTimeout() time.Duration {
	p := t.params.Load()
	return t.scale(p, p.DepartureTimeout)
}

// SweepInterval returns the fixed delay between sweep cycles.
func (t *Timing) SweepInterval() time.Duration {
	return t.params.Load().SweepInterval
}

func (t *Timing) scale(p *Params, base time.Duration) time.Duration {
	if !p.ScaleWithClusterSize {
		return base
	}

	n := t.clusterSize()
	if n < 1 {
		n = 1
	}
	factor := math.Ceil(math.Log10(float64(n + 1)))
	if factor < 1 {
		factor = 1
	}
	return time.Duration(float64(base) * factor)
}
