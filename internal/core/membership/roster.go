package membership

import (
	"sort"
	"sync"
	"time"

	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/pkg/cmap"
)

// memberRecord is the unit of locking: one mutex per member.
type memberRecord struct {
	mu sync.Mutex
	m  domain.Member
}

// Roster is the concurrent membership table.
type Roster struct {
	records *cmap.Map[*memberRecord]
	now     func() time.Time
}

// Option configures the Roster.
type Option func(*Roster)

// WithClock overrides the time source. Used by tests to drive
// deterministic expiry scans.
func WithClock(now func() time.Time) Option {
	return func(r *Roster) {
		r.now = now
	}
}

// WithShardCount sets the shard count of the underlying map.
func WithShardCount(n int) Option {
	return func(r *Roster) {
		r.records = cmap.NewWithShards[*memberRecord](n)
	}
}

// New creates an empty Roster.
func New(opts ...Option) *Roster {
	r := &Roster{
		records: cmap.New[*memberRecord](),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Apply merges a membership statement arriving from the gossip
// receive path and reports whether it changed the roster.
//
// Reconciliation rules:
//   - an unknown member is inserted as stated
//   - a higher incarnation always wins
//   - at equal incarnation, the worse health wins
//   - everything else is stale and ignored
//
// The rules make Departed terminal against same-or-lower incarnations:
// no health is worse than Departed, so only a strictly higher
// incarnation (a genuine rebirth of the peer) can bring a tombstoned
// member back.
func (r *Roster) Apply(incoming domain.Member) bool {
	if incoming.ID == "" {
		return false
	}

	applied := false
	r.records.Update(incoming.ID, func(rec *memberRecord, exists bool) *memberRecord {
		if !exists {
			incoming.LastTransition = r.now()
			applied = true
			return &memberRecord{m: incoming}
		}

		rec.mu.Lock()
		defer rec.mu.Unlock()

		cur := rec.m
		wins := incoming.Incarnation > cur.Incarnation ||
			(incoming.Incarnation == cur.Incarnation && incoming.Health.Worse(cur.Health))
		if !wins {
			return rec
		}

		if incoming.Health != cur.Health {
			rec.m.LastTransition = r.now()
		}
		rec.m.Health = incoming.Health
		rec.m.Incarnation = incoming.Incarnation
		if incoming.Addr != "" {
			rec.m.Addr = incoming.Addr
		}
		applied = true
		return rec
	})
	return applied
}

// MarkSuspect transitions an Alive member to Suspect, as the local
// probe path does after a failed probe. Reports whether the member
// was transitioned; members already past Alive are left alone.
func (r *Roster) MarkSuspect(id string) bool {
	rec, ok := r.records.Get(id)
	if !ok {
		return false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.m.Health != domain.Alive {
		return false
	}
	rec.m.Health = domain.Suspect
	rec.m.LastTransition = r.now()
	return true
}

// ExpireSuspectToConfirmed transitions every member that has been
// Suspect for at least timeout to Confirmed and returns the IDs
// moved, sorted.
//
// The threshold is inclusive: a member whose suspect period reaches
// exactly timeout at scan time expires in this pass. Each candidate
// is re-checked under its record lock, so a member transitioned out
// of Suspect by the receive path between snapshot and lock is neither
// moved nor reported.
func (r *Roster) ExpireSuspectToConfirmed(timeout time.Duration) []string {
	return r.expire(domain.Suspect, domain.Confirmed, timeout)
}

// ExpireConfirmedToDeparted transitions every member that has been
// Confirmed for at least timeout to Departed and returns the IDs
// moved, sorted. Same threshold and race semantics as
// ExpireSuspectToConfirmed.
func (r *Roster) ExpireConfirmedToDeparted(timeout time.Duration) []string {
	return r.expire(domain.Confirmed, domain.Departed, timeout)
}

func (r *Roster) expire(from, to domain.Health, timeout time.Duration) []string {
	// Snapshot record pointers first so no shard lock is held while
	// record locks are taken.
	recs := r.records.Values()
	now := r.now()

	var moved []string
	for _, rec := range recs {
		rec.mu.Lock()
		if rec.m.Health == from && now.Sub(rec.m.LastTransition) >= timeout {
			rec.m.Health = to
			rec.m.LastTransition = now
			moved = append(moved, rec.m.ID)
		}
		rec.mu.Unlock()
	}

	sort.Strings(moved)
	return moved
}

// Get returns a copy of the member with the given ID.
func (r *Roster) Get(id string) (domain.Member, bool) {
	rec, ok := r.records.Get(id)
	if !ok {
		return domain.Member{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.m, true
}

// Len returns the number of known members, tombstones included.
func (r *Roster) Len() int {
	return r.records.Count()
}

// Members returns a copy of every member record, sorted by ID.
func (r *Roster) Members() []domain.Member {
	recs := r.records.Values()

	members := make([]domain.Member, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		members = append(members, rec.m)
		rec.mu.Unlock()
	}

	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

// HealthCounts returns the number of members in each health state.
func (r *Roster) HealthCounts() map[domain.Health]int {
	counts := make(map[domain.Health]int, 4)
	for _, rec := range r.records.Values() {
		rec.mu.Lock()
		counts[rec.m.Health]++
		rec.mu.Unlock()
	}
	return counts
}
