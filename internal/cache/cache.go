// Package cache implements the freshness layer every upstream dataset sits
// behind: a per-key TTL store with stale-on-error fallback and per-key
// single-flight refresh.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pegwatch/stablecoin-monitor/internal/metrics"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Producer fetches a fresh value for a cache key.
type Producer func(ctx context.Context) (any, error)

// Store is a key→(value, fetchedAt) map with per-key TTL semantics.
// Construct one per process and pass it to every component that needs
// freshness-aware reads.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
	now     func() time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// GetOrRefresh returns the cached value for key if it is younger than ttl,
// otherwise calls producer. On producer failure the previous value is
// served if one exists (stale-on-error); with no previous value the
// failure propagates. Concurrent refreshes of the same expired key share
// a single producer call.
func (s *Store) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, producer Producer) (any, error) {
	if v, ok := s.fresh(key, ttl); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Another caller may have refreshed while we waited on the flight.
		if v, ok := s.fresh(key, ttl); ok {
			return v, nil
		}

		start := s.now()
		value, err := producer(ctx)
		metrics.RefreshDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.RefreshTotal.WithLabelValues(key, "error").Inc()
			s.mu.RLock()
			prev, ok := s.entries[key]
			s.mu.RUnlock()
			if ok {
				metrics.StaleServedTotal.WithLabelValues(key).Inc()
				return prev.value, nil
			}
			return nil, fmt.Errorf("refresh %s: %w", key, err)
		}

		now := s.now()
		s.mu.Lock()
		s.entries[key] = &entry{value: value, fetchedAt: now}
		s.mu.Unlock()

		metrics.RefreshTotal.WithLabelValues(key, "success").Inc()
		metrics.RefreshLastSuccess.WithLabelValues(key).Set(float64(now.Unix()))
		return value, nil
	})
	return v, err
}

func (s *Store) fresh(key string, ttl time.Duration) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) >= ttl {
		return nil, false
	}
	return e.value, true
}

// LastRefreshed reports when key was last successfully produced. The
// stale-feed alert rule reads this to detect feeds that stopped updating.
func (s *Store) LastRefreshed(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}

// GetOrRefresh is the typed wrapper over Store.GetOrRefresh.
func GetOrRefresh[T any](ctx context.Context, s *Store, key string, ttl time.Duration, producer func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.GetOrRefresh(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %s holds %T", key, v)
	}
	return out, nil
}
