package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rumormesh"

// Metrics holds every metric the core emits, registered on a private
// registry so tests can create isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	// TransitionsTotal counts time-driven member health transitions,
	// labeled by the target state.
	TransitionsTotal *prometheus.CounterVec

	// RumorsPurgedTotal counts expired rumors removed per category.
	RumorsPurgedTotal *prometheus.CounterVec

	// HeatEntriesPurgedTotal counts heat entries dropped for departed
	// members.
	HeatEntriesPurgedTotal prometheus.Counter

	// MembersByHealth tracks the roster composition.
	MembersByHealth *prometheus.GaugeVec

	// SweepDuration observes the wall time of one sweep cycle.
	SweepDuration prometheus.Histogram

	// SweepCyclesTotal counts completed sweep cycles.
	SweepCyclesTotal prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "member_transitions_total",
			Help:      "Time-driven member health transitions, by target state.",
		}, []string{"to"}),
		RumorsPurgedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rumors_purged_total",
			Help:      "Expired rumors removed from the category stores.",
		}, []string{"kind"}),
		HeatEntriesPurgedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heat_entries_purged_total",
			Help:      "Heat entries removed for departed members.",
		}),
		MembersByHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "Known members by health state, tombstones included.",
		}, []string{"health"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one expiration sweep cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs .. ~1.6s
		}),
		SweepCyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_cycles_total",
			Help:      "Completed expiration sweep cycles.",
		}),
	}

	registry.MustRegister(
		m.TransitionsTotal,
		m.RumorsPurgedTotal,
		m.HeatEntriesPurgedTotal,
		m.MembersByHealth,
		m.SweepDuration,
		m.SweepCyclesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry, e.g. for components that
// register their own collectors (the tombstone archive does).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
