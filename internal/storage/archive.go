package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/internal/telemetry/logger"
)

const tombstonePrefix = "tomb/"

const gcInterval = 10 * time.Minute

// Archive is a Badger-backed store of departed-member tombstones.
type Archive struct {
	db  *badger.DB
	log logger.Logger

	closed atomic.Bool

	metricsWritten prometheus.Counter
	metricsSize    prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// Config configures the Archive.
type Config struct {
	// Dir is the Badger data directory.
	Dir string

	// SyncWrites forces an fsync per write. Tombstones are rare, so
	// the durability is worth the latency.
	SyncWrites bool
}

// NewArchive opens the tombstone archive at cfg.Dir.
func NewArchive(cfg Config, log logger.Logger) (*Archive, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("archive: dir is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{log: log}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domain.ErrArchive.WithDetails("open db").WithCause(err)
	}

	a := &Archive{
		db:     db,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go a.gcLoop()

	log.Info("tombstone archive opened", "dir", cfg.Dir)
	return a, nil
}

// Put persists a tombstone. Only Departed members belong in the
// archive; anything else is rejected.
func (a *Archive) Put(m domain.Member) error {
	if a.closed.Load() {
		return domain.ErrArchiveClosed
	}
	if m.Health != domain.Departed {
		return domain.ErrArchive.WithDetails("member " + m.ID + " is not departed")
	}

	value, err := json.Marshal(m)
	if err != nil {
		return domain.ErrArchive.WithDetails("encode tombstone").WithCause(err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tombstonePrefix+m.ID), value)
	})
	if err != nil {
		return domain.ErrArchive.WithDetails("write tombstone").WithCause(err)
	}

	if a.metricsWritten != nil {
		a.metricsWritten.Inc()
	}
	return nil
}

// Get returns the archived tombstone for a member ID.
func (a *Archive) Get(id string) (domain.Member, error) {
	if a.closed.Load() {
		return domain.Member{}, domain.ErrArchiveClosed
	}

	var m domain.Member
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tombstonePrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrMemberNotFound
			}
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &m)
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.Member{}, err
		}
		return domain.Member{}, domain.ErrArchive.WithDetails("read tombstone").WithCause(err)
	}

	return m, nil
}

// Restore streams every archived tombstone to apply, typically
// Roster.Apply at agent startup. Returns the number restored.
func (a *Archive) Restore(apply func(domain.Member)) (int, error) {
	if a.closed.Load() {
		return 0, domain.ErrArchiveClosed
	}

	restored := 0
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tombstonePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var m domain.Member
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &m)
			})
			if err != nil {
				return err
			}
			apply(m)
			restored++
		}
		return nil
	})
	if err != nil {
		return restored, domain.ErrArchive.WithDetails("restore tombstones").WithCause(err)
	}

	if a.metricsSize != nil {
		a.metricsSize.Set(float64(restored))
	}
	a.log.Info("tombstones restored", "count", restored)
	return restored, nil
}

// Len returns the number of archived tombstones.
func (a *Archive) Len() (int, error) {
	if a.closed.Load() {
		return 0, domain.ErrArchiveClosed
	}

	count := 0
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tombstonePrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, domain.ErrArchive.WithDetails("count tombstones").WithCause(err)
	}
	return count, nil
}

// Close shuts down the archive. Further calls return ErrArchiveClosed.
func (a *Archive) Close() error {
	if a.closed.Swap(true) {
		return nil
	}

	close(a.stopCh)
	<-a.doneCh

	if err := a.db.Close(); err != nil {
		return domain.ErrArchive.WithDetails("close db").WithCause(err)
	}
	a.log.Info("tombstone archive closed")
	return nil
}

// RegisterMetrics registers archive metrics with the given registry.
// Returns the archive for chaining.
func (a *Archive) RegisterMetrics(registry *prometheus.Registry) *Archive {
	a.metricsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rumormesh",
		Subsystem: "archive",
		Name:      "tombstones_written_total",
		Help:      "Total tombstones written to the archive",
	})

	a.metricsSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rumormesh",
		Subsystem: "archive",
		Name:      "tombstones",
		Help:      "Tombstones held by the archive at last restore",
	})

	registry.MustRegister(a.metricsWritten, a.metricsSize)
	return a
}

// gcLoop runs Badger value-log garbage collection periodically.
func (a *Archive) gcLoop() {
	defer close(a.doneCh)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				err := a.db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						a.log.Error("archive gc failed", "error", err)
					}
					break
				}
			}
		case <-a.stopCh:
			return
		}
	}
}

// badgerLogger adapts our Logger to Badger's Logger interface.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
