// Package cache holds the analyzed lunch snapshot behind a TTL, refreshing
// it on demand and persisting it through an optional store.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/metrics"
)

// Refresher produces a fresh set of lunch records.
type Refresher func(ctx context.Context) ([]domain.LunchRecord, error)

// SnapshotStore persists snapshots across restarts.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// Snapshot is one analyzed result set with its fetch time.
type Snapshot struct {
	Records   []domain.LunchRecord
	FetchedAt time.Time
}

// IsZero reports whether the snapshot has never been populated.
func (s Snapshot) IsZero() bool {
	return s.FetchedAt.IsZero()
}

// Service serves the current snapshot and coordinates refreshes. Concurrent
// refresh requests collapse into a single pipeline run.
type Service struct {
	mu       sync.RWMutex
	snapshot Snapshot

	ttl     time.Duration
	clock   clockwork.Clock
	refresh Refresher
	store   SnapshotStore
	group   singleflight.Group
}

// NewService creates a snapshot cache. store may be nil for in-memory only
// operation.
func NewService(refresh Refresher, ttl time.Duration, clock clockwork.Clock, store SnapshotStore) *Service {
	return &Service{
		ttl:     ttl,
		clock:   clock,
		refresh: refresh,
		store:   store,
	}
}

// Warm loads a persisted snapshot into memory, if the store has one. Missing
// or unreadable snapshots are not fatal; the next Get refreshes instead.
func (s *Service) Warm(ctx context.Context) {
	if s.store == nil {
		return
	}
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		slog.Warn("could not warm snapshot from store", "error", err)
		return
	}
	if snapshot.IsZero() {
		return
	}
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	slog.Info("snapshot warmed from store", "fetched_at", snapshot.FetchedAt, "lunches", len(snapshot.Records))
}

// Get returns the current snapshot, refreshing first when it is missing or
// older than the TTL. If a refresh fails but a stale snapshot exists, the
// stale snapshot is served.
func (s *Service) Get(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	age := s.clock.Since(snapshot.FetchedAt)
	if !snapshot.IsZero() && age < s.ttl {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		metrics.SnapshotAge.Set(age.Seconds())
		return snapshot, nil
	}

	trigger := "expired"
	if snapshot.IsZero() {
		trigger = "miss"
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("stale").Inc()
	}

	fresh, err := s.Refresh(ctx, trigger)
	if err != nil {
		if !snapshot.IsZero() {
			slog.Warn("refresh failed, serving stale snapshot", "age", age, "error", err)
			return snapshot, nil
		}
		return Snapshot{}, err
	}
	return fresh, nil
}

// Refresh runs the pipeline and swaps in the new snapshot. Concurrent calls
// share one run.
func (s *Service) Refresh(ctx context.Context, trigger string) (Snapshot, error) {
	result, err, _ := s.group.Do("refresh", func() (any, error) {
		records, err := s.refresh(ctx)
		if err != nil {
			metrics.CacheRefreshes.WithLabelValues(trigger + "_error").Inc()
			return nil, fmt.Errorf("refreshing snapshot: %w", err)
		}

		snapshot := Snapshot{Records: records, FetchedAt: s.clock.Now()}
		s.mu.Lock()
		s.snapshot = snapshot
		s.mu.Unlock()

		metrics.CacheRefreshes.WithLabelValues(trigger).Inc()
		metrics.SnapshotAge.Set(0)

		if s.store != nil {
			if err := s.store.Save(ctx, snapshot); err != nil {
				slog.Warn("could not persist snapshot", "error", err)
			}
		}
		return snapshot, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return result.(Snapshot), nil
}
