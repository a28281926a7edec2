package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/internal/core/membership"
	"github.com/yndnr/rumormesh/internal/core/rumor"
	"github.com/yndnr/rumormesh/internal/core/timing"
	"github.com/yndnr/rumormesh/internal/telemetry/logger"
	"github.com/yndnr/rumormesh/internal/telemetry/metric"
)

// Archiver persists departed tombstones. Failures are the archive's
// problem: the sweep logs them and moves on.
type Archiver interface {
	Put(m domain.Member) error
}

// Sweeper drives the time-based expiration of members and rumors.
type Sweeper struct {
	roster  *membership.Roster
	timing  *timing.Timing
	heat    *rumor.Heat
	stores  *rumor.Stores
	archive Archiver

	log     logger.Logger
	metrics *metric.Metrics
	now     func() time.Time

	// warnLimit caps transition warnings so a mass failure (a rack
	// going dark) does not flood the log.
	warnLimit *rate.Limiter
}

// Option configures the Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Sweeper) {
		s.log = log
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

// WithArchive enables best-effort tombstone persistence.
func WithArchive(a Archiver) Option {
	return func(s *Sweeper) {
		s.archive = a
	}
}

// WithClock overrides the time source used for purge deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper creates a Sweeper over the given shared structures.
func NewSweeper(roster *membership.Roster, tm *timing.Timing, heat *rumor.Heat, stores *rumor.Stores, opts ...Option) *Sweeper {
	s := &Sweeper{
		roster:    roster,
		timing:    tm,
		heat:      heat,
		stores:    stores,
		log:       logger.Nop(),
		metrics:   metric.New(),
		now:       time.Now,
		warnLimit: rate.NewLimiter(rate.Every(time.Second), 10),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes sweep cycles on the configured cadence until ctx is
// cancelled. The stop signal is checked at the top of each cycle and
// observed during the inter-cycle sleep, so shutdown is prompt.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("expiration sweep started",
		"interval", s.timing.SweepInterval().String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiration sweep stopped")
			return
		default:
		}

		s.Sweep()

		// Re-read the interval each cycle so a configuration reload
		// takes effect without a restart.
		select {
		case <-ctx.Done():
			s.log.Info("expiration sweep stopped")
			return
		case <-time.After(s.timing.SweepInterval()):
		}
	}
}

// Sweep executes exactly one expiration cycle.
func (s *Sweeper) Sweep() {
	start := time.Now()

	confirmed := s.roster.ExpireSuspectToConfirmed(s.timing.SuspicionTimeout())
	for _, id := range confirmed {
		// Newly confirmed status must spread aggressively.
		s.heat.StartHotRumor(domain.NewRumorKey(domain.KindMember, id, ""))
		s.metrics.TransitionsTotal.WithLabelValues(domain.Confirmed.String()).Inc()
		if s.warnLimit.Allow() {
			s.log.Warn("member confirmed dead", "member", id)
		}
	}

	departed := s.roster.ExpireConfirmedToDeparted(s.timing.DepartureTimeout())
	for _, id := range departed {
		// Stop propagating the member's residual rumors, then
		// re-ignite the departure statement itself.
		purged := s.heat.Purge(id)
		s.heat.StartHotRumor(domain.NewRumorKey(domain.KindMember, id, ""))

		s.metrics.TransitionsTotal.WithLabelValues(domain.Departed.String()).Inc()
		s.metrics.HeatEntriesPurgedTotal.Add(float64(purged))
		if s.warnLimit.Allow() {
			s.log.Warn("member departed", "member", id, "heat_purged", purged)
		}

		s.archiveTombstone(id)
	}

	// One deadline for every category, so all stores age out against
	// the same instant within a cycle.
	now := s.now()
	for kind, n := range s.stores.PurgeExpired(now) {
		if n > 0 {
			s.metrics.RumorsPurgedTotal.WithLabelValues(kind.String()).Add(float64(n))
			s.log.Debug("purged expired rumors", "kind", kind.String(), "count", n)
		}
	}

	for health, n := range s.roster.HealthCounts() {
		s.metrics.MembersByHealth.WithLabelValues(health.String()).Set(float64(n))
	}

	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	s.metrics.SweepCyclesTotal.Inc()
}

func (s *Sweeper) archiveTombstone(id string) {
	if s.archive == nil {
		return
	}

	m, ok := s.roster.Get(id)
	if !ok {
		return
	}
	if err := s.archive.Put(m); err != nil {
		// Downstream failures stay downstream.
		s.log.Error("tombstone archive write failed", "member", id, "error", err)
	}
}
