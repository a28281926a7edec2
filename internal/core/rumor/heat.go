package rumor

import (
	"math"
	"sort"

	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/pkg/cmap"
)

// DefaultCooldown is the number of transmissions after which a rumor
// stops being offered when no cluster-size scaling is configured.
const DefaultCooldown = 3

type heatEntry struct {
	key  domain.RumorKey
	heat int
}

// Heat tracks per-rumor retransmission urgency. Heat zero is hottest;
// the send path increments it via Cool after each transmission, and
// rumors at or above the cooldown threshold are no longer offered.
//
// This core only ever resets heat (StartHotRumor) or removes it
// wholly (Purge); cooling is driven by the sender.
type Heat struct {
	entries  *cmap.Map[heatEntry]
	cooldown func() int
}

// HeatOption configures the Heat table.
type HeatOption func(*Heat)

// WithCooldown overrides the cooldown threshold with a dynamic value,
// typically CooldownForSize over the live roster size.
func WithCooldown(fn func() int) HeatOption {
	return func(h *Heat) {
		h.cooldown = fn
	}
}

// NewHeat creates an empty heat table.
func NewHeat(opts ...HeatOption) *Heat {
	h := &Heat{
		entries:  cmap.New[heatEntry](),
		cooldown: func() int { return DefaultCooldown },
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// StartHotRumor marks the rumor identified by key as freshly urgent,
// clearing any accumulated cooldown so it is offered to peers again
// even if it had already cooled. Idempotent; creates the entry if
// absent.
func (h *Heat) StartHotRumor(key domain.RumorKey) {
	h.entries.Set(key.String(), heatEntry{key: key, heat: 0})
}

// Purge removes every heat entry whose primary ID matches id, across
// all categories and qualifiers, and returns the number removed.
// Used when a member permanently departs so bandwidth is not wasted
// propagating its residual rumors.
func (h *Heat) Purge(id string) int {
	return h.entries.DeleteFunc(func(_ string, e heatEntry) bool {
		return e.key.ID == id
	})
}

// Cool increments the heat of each given rumor, recording one more
// transmission. Unknown keys are ignored; cooling never creates an
// entry.
func (h *Heat) Cool(keys []domain.RumorKey) {
	for _, key := range keys {
		h.entries.UpdateIfPresent(key.String(), func(e heatEntry) heatEntry {
			e.heat++
			return e
		})
	}
}

// HotRumors returns the keys still below the cooldown threshold,
// hottest first, ties broken by canonical key order. A limit of zero
// or less means no limit.
func (h *Heat) HotRumors(limit int) []domain.RumorKey {
	threshold := h.cooldown()

	var hot []heatEntry
	h.entries.Range(func(_ string, e heatEntry) bool {
		if e.heat < threshold {
			hot = append(hot, e)
		}
		return true
	})

	sort.Slice(hot, func(i, j int) bool {
		if hot[i].heat != hot[j].heat {
			return hot[i].heat < hot[j].heat
		}
		return hot[i].key.String() < hot[j].key.String()
	})

	if limit > 0 && len(hot) > limit {
		hot = hot[:limit]
	}

	keys := make([]domain.RumorKey, len(hot))
	for i, e := range hot {
		keys[i] = e.key
	}
	return keys
}

// HeatOf returns the current heat of a rumor.
func (h *Heat) HeatOf(key domain.RumorKey) (int, bool) {
	e, ok := h.entries.Get(key.String())
	if !ok {
		return 0, false
	}
	return e.heat, true
}

// Len returns the number of tracked rumors.
func (h *Heat) Len() int {
	return h.entries.Count()
}

// CooldownForSize derives a cooldown threshold from cluster size:
// mult * ceil(log10(n+1)), at least mult. Larger clusters need more
// retransmissions before a rumor can be assumed saturated.
func CooldownForSize(mult, n int) int {
	if n < 1 {
		n = 1
	}
	scale := int(math.Ceil(math.Log10(float64(n + 1))))
	if scale < 1 {
		scale = 1
	}
	return mult * scale
}
