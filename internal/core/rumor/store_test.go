package rumor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/rumormesh/internal/core/domain"
)

func TestInsertReportsChange(t *testing.T) {
	s := NewStore[domain.Ballot](domain.KindElection)

	ballot := domain.Ballot{Group: "redis.default", Term: 1, Leader: "rmnd-a"}

	if !s.Insert("redis.default", ballot) {
		t.Error("first insert should report a change")
	}
	if s.Insert("redis.default", ballot) {
		t.Error("identical re-insert should not report a change")
	}

	ballot.Term = 2
	if !s.Insert("redis.default", ballot) {
		t.Error("payload change should be reported")
	}

	got, ok := s.Get("redis.default")
	if !ok || got.Term != 2 {
		t.Errorf("Get() = (%+v, %v), want term 2", got, ok)
	}
}

func TestInsertExpiringKeepsChangeSemantics(t *testing.T) {
	s := NewStore[domain.DepartureNotice](domain.KindDeparture)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	notice := domain.DepartureNotice{MemberID: "rmnd-a", LeftAt: now.Unix()}

	if !s.InsertExpiring("rmnd-a", notice, now.Add(time.Hour)) {
		t.Error("first insert should report a change")
	}
	// Only the expiry moved; the content did not.
	if s.InsertExpiring("rmnd-a", notice, now.Add(2*time.Hour)) {
		t.Error("expiry-only update should not report a content change")
	}

	expiry, ok := s.Expiry("rmnd-a")
	if !ok || !expiry.Equal(now.Add(2*time.Hour)) {
		t.Errorf("Expiry() = (%v, %v), want updated expiry", expiry, ok)
	}
}

func TestGetMissing(t *testing.T) {
	s := NewStore[domain.Ballot](domain.KindElection)

	if _, ok := s.Get("nope"); ok {
		t.Error("Get on an empty store should report absence")
	}
	if _, ok := s.Expiry("nope"); ok {
		t.Error("Expiry on an empty store should report absence")
	}
}

func TestPurgeExpired(t *testing.T) {
	s := NewStore[domain.DepartureNotice](domain.KindDeparture)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s.InsertExpiring("past", domain.DepartureNotice{MemberID: "past"}, now.Add(-time.Minute))
	s.InsertExpiring("boundary", domain.DepartureNotice{MemberID: "boundary"}, now)
	s.InsertExpiring("future", domain.DepartureNotice{MemberID: "future"}, now.Add(time.Minute))
	s.Insert("permanent", domain.DepartureNotice{MemberID: "permanent"})

	// Expiry at or before the deadline is purged; the boundary entry goes.
	if purged := s.PurgeExpired(now); purged != 2 {
		t.Errorf("PurgeExpired() = %d, want 2", purged)
	}

	if _, ok := s.Get("past"); ok {
		t.Error("expired entry survived the purge")
	}
	if _, ok := s.Get("boundary"); ok {
		t.Error("boundary entry should be purged (expiry <= now)")
	}
	if _, ok := s.Get("future"); !ok {
		t.Error("future entry should survive")
	}
	if _, ok := s.Get("permanent"); !ok {
		t.Error("permanent entry should survive any purge")
	}
}

func TestPurgeExpiredIdempotent(t *testing.T) {
	s := NewStore[domain.DepartureNotice](domain.KindDeparture)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s.InsertExpiring("a", domain.DepartureNotice{MemberID: "a"}, now.Add(-time.Second))
	s.InsertExpiring("b", domain.DepartureNotice{MemberID: "b"}, now.Add(time.Hour))

	if purged := s.PurgeExpired(now); purged != 1 {
		t.Fatalf("first PurgeExpired() = %d, want 1", purged)
	}
	if purged := s.PurgeExpired(now); purged != 0 {
		t.Errorf("second PurgeExpired() with identical deadline = %d, want 0", purged)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestPurgeNeverTouchesPermanentEntries(t *testing.T) {
	s := NewStore[domain.Ballot](domain.KindElection)
	s.Insert("grp", domain.Ballot{Group: "grp", Term: 1})

	far := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	if purged := s.PurgeExpired(far); purged != 0 {
		t.Errorf("PurgeExpired() = %d, want 0", purged)
	}
	if _, ok := s.Get("grp"); !ok {
		t.Error("permanent entry was purged")
	}
}

func TestPurgeConcurrentWithInsert(t *testing.T) {
	s := NewStore[domain.DepartureNotice](domain.KindDeparture)
	now := time.Now()

	for i := 0; i < 100; i++ {
		s.InsertExpiring(fmt.Sprintf("old-%d", i), domain.DepartureNotice{MemberID: "old"}, now.Add(-time.Second))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Insert(fmt.Sprintf("new-%d", i), domain.DepartureNotice{MemberID: "new"})
		}
	}()

	s.PurgeExpired(now)
	wg.Wait()

	// Every concurrent insert survives; every expired entry is gone.
	if got := s.Len(); got != 100 {
		t.Errorf("Len() = %d, want 100", got)
	}
}

func TestStoresCategoryIsolation(t *testing.T) {
	stores := NewStores()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	stores.Departure.InsertExpiring("rmnd-a", domain.DepartureNotice{MemberID: "rmnd-a"}, now.Add(-time.Second))
	stores.Election.Insert("grp", domain.Ballot{Group: "grp", Term: 1})
	stores.Update.InsertExpiring("grp", domain.ConfigVersion{Group: "grp", Version: 1}, now.Add(time.Hour))
	stores.Service.Insert("grp", domain.ServiceFact{Group: "grp", MemberID: "rmnd-a"})
	stores.ServiceConfig.Insert("grp", domain.ServiceConfigBlob{Group: "grp", Incarnation: 1})
	stores.ServiceFile.Insert("grp", domain.ServiceFileBlob{Group: "grp", Filename: "f"})

	counts := stores.PurgeExpired(now)

	if counts[domain.KindDeparture] != 1 {
		t.Errorf("departure purge count = %d, want 1", counts[domain.KindDeparture])
	}
	for _, kind := range []domain.RumorKind{
		domain.KindElection, domain.KindUpdate, domain.KindService,
		domain.KindServiceConfig, domain.KindServiceFile,
	} {
		if counts[kind] != 0 {
			t.Errorf("%v purge count = %d, want 0", kind, counts[kind])
		}
	}

	// Purging one category leaves every other store untouched.
	if stores.Election.Len() != 1 || stores.Update.Len() != 1 ||
		stores.Service.Len() != 1 || stores.ServiceConfig.Len() != 1 ||
		stores.ServiceFile.Len() != 1 {
		t.Error("a purge in one category mutated another category's store")
	}
	if stores.Departure.Len() != 0 {
		t.Errorf("departure store Len() = %d, want 0", stores.Departure.Len())
	}
}
