package rumor

import (
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/pkg/cmap"
)

type entry[P domain.Payload] struct {
	payload   P
	digest    [32]byte
	expiresAt time.Time // zero means the entry never expires
}

// Store is an expiring mapping from rumor ID to payload for a single
// rumor category. Each category gets its own instance, so a purge can
// never cross category boundaries.
type Store[P domain.Payload] struct {
	kind    domain.RumorKind
	entries *cmap.Map[entry[P]]
}

// NewStore creates an empty store for the given category.
func NewStore[P domain.Payload](kind domain.RumorKind) *Store[P] {
	return &Store[P]{
		kind:    kind,
		entries: cmap.New[entry[P]](),
	}
}

// Kind returns the rumor category this store holds.
func (s *Store[P]) Kind() domain.RumorKind {
	return s.kind
}

// Insert stores a permanent rumor and reports whether the stored
// content changed: true for a new ID or a payload whose digest
// differs from the previous one. Callers use the result to decide
// whether the rumor needs re-ignition.
func (s *Store[P]) Insert(id string, payload P) bool {
	return s.insert(id, payload, time.Time{})
}

// InsertExpiring stores a rumor that becomes purgeable at expiry.
// Change reporting follows Insert; updating only the expiry of an
// otherwise identical payload is not a content change.
func (s *Store[P]) InsertExpiring(id string, payload P, expiry time.Time) bool {
	return s.insert(id, payload, expiry)
}

func (s *Store[P]) insert(id string, payload P, expiry time.Time) bool {
	digest := blake2b.Sum256(payload.Encode())

	changed := false
	s.entries.Update(id, func(e entry[P], exists bool) entry[P] {
		changed = !exists || e.digest != digest
		return entry[P]{payload: payload, digest: digest, expiresAt: expiry}
	})
	return changed
}

// Get returns the payload stored under id.
func (s *Store[P]) Get(id string) (P, bool) {
	e, ok := s.entries.Get(id)
	if !ok {
		var zero P
		return zero, false
	}
	return e.payload, true
}

// Expiry returns the absolute expiry of the rumor stored under id.
// The zero time means the entry is permanent.
func (s *Store[P]) Expiry(id string) (time.Time, bool) {
	e, ok := s.entries.Get(id)
	if !ok {
		return time.Time{}, false
	}
	return e.expiresAt, true
}

// Remove deletes the rumor stored under id, if any.
func (s *Store[P]) Remove(id string) {
	s.entries.Delete(id)
}

// Len returns the number of stored rumors.
func (s *Store[P]) Len() int {
	return s.entries.Count()
}

// PurgeExpired removes every entry whose expiry is at or before now
// and returns the number removed. Entries without an expiry are never
// touched. The operation is idempotent: a second call with the same
// deadline removes nothing.
//
// The underlying scan locks one shard at a time, so concurrent
// inserts from the receive path are not stalled for the whole pass.
func (s *Store[P]) PurgeExpired(now time.Time) int {
	return s.entries.DeleteFunc(func(_ string, e entry[P]) bool {
		return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
	})
}

// Stores bundles the six category stores the expiration sweep drives.
type Stores struct {
	Departure     *Store[domain.DepartureNotice]
	Election      *Store[domain.Ballot]
	Update        *Store[domain.ConfigVersion]
	Service       *Store[domain.ServiceFact]
	ServiceConfig *Store[domain.ServiceConfigBlob]
	ServiceFile   *Store[domain.ServiceFileBlob]
}

// NewStores creates the six category stores.
func NewStores() *Stores {
	return &Stores{
		Departure:     NewStore[domain.DepartureNotice](domain.KindDeparture),
		Election:      NewStore[domain.Ballot](domain.KindElection),
		Update:        NewStore[domain.ConfigVersion](domain.KindUpdate),
		Service:       NewStore[domain.ServiceFact](domain.KindService),
		ServiceConfig: NewStore[domain.ServiceConfigBlob](domain.KindServiceConfig),
		ServiceFile:   NewStore[domain.ServiceFileBlob](domain.KindServiceFile),
	}
}

// PurgeExpired purges every category store against the same deadline
// and returns the number of rumors removed per category.
func (s *Stores) PurgeExpired(now time.Time) map[domain.RumorKind]int {
	return map[domain.RumorKind]int{
		domain.KindDeparture:     s.Departure.PurgeExpired(now),
		domain.KindElection:      s.Election.PurgeExpired(now),
		domain.KindUpdate:        s.Update.PurgeExpired(now),
		domain.KindService:       s.Service.PurgeExpired(now),
		domain.KindServiceConfig: s.ServiceConfig.PurgeExpired(now),
		domain.KindServiceFile:   s.ServiceFile.PurgeExpired(now),
	}
}
