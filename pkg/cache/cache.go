// Package cache provides the keyed, staleness-aware store that sits between
// the presentation layer and the fetchers. Every remote read goes through it
// so that concurrent requests for the same key collapse into one fetch and a
// value is refetched only after its staleness window elapses. Entries are
// replaced whole on successful refetch and retained on failure; the cache
// never partially overwrites a value and never changes a producer's failure
// policy.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Policy selects how an expired entry is refreshed.
type Policy int

const (
	// Foreground blocks the caller until the refetch completes.
	Foreground Policy = iota
	// Background returns the stale value immediately and refreshes the
	// entry off the caller's path. Used by views that prefer a stale frame
	// over a spinner.
	Background
)

// Default staleness windows. The index changes at most once per day; past
// datasets never change at all, but "today's" file grows as the pipeline
// runs, so datasets get a shorter window. Job status is polled, so its
// window is short enough that a refocus sees fresh state.
const (
	CatalogTTL = time.Hour
	DatasetTTL = 10 * time.Minute
	JobTTL     = 30 * time.Second
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store is a keyed cache over asynchronous producers. The zero value is not
// usable; create one with New.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	clock   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clock != nil {
		s.clock = clock
	}
}

// Key builds a cache key from parts, e.g. Key("papers", "2025-01-02").
func Key(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "/"
		}
		key += p
	}
	return key
}

// Get returns the value for key, fetching it with produce when the entry is
// absent or stale. Within the staleness window the cached value is returned
// without calling produce. Concurrent callers of the same key share one
// in-flight produce call. On produce failure the error is returned to every
// waiter and any previously cached value stays in place.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration, policy Policy, produce func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	now := s.clock()
	s.mu.RUnlock()

	if ok && now.Sub(e.fetchedAt) < ttl {
		return e.value, nil
	}

	if ok && policy == Background {
		// Serve stale and refresh off-path. DoChan coalesces with any
		// foreground fetch already in flight for this key.
		go func() {
			<-s.group.DoChan(key, func() (any, error) {
				return s.produceAndStore(context.Background(), key, produce)
			})
		}()
		return e.value, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		return s.produceAndStore(ctx, key, produce)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) produceAndStore(ctx context.Context, key string, produce func(context.Context) (any, error)) (any, error) {
	// A caller that queued behind a completed flight may start a new one
	// immediately; if the entry was just refreshed, reuse it.
	s.mu.RLock()
	if e, ok := s.entries[key]; ok && s.clock().Sub(e.fetchedAt) < time.Second {
		s.mu.RUnlock()
		return e.value, nil
	}
	s.mu.RUnlock()

	value, err := produce(ctx)
	if err != nil {
		// Old value, if any, is deliberately left untouched.
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, fetchedAt: s.clock()}
	s.mu.Unlock()
	return value, nil
}

// Peek returns the cached value and its fetch time without triggering any
// fetch, stale or not.
func (s *Store) Peek(key string) (any, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	return e.value, e.fetchedAt, true
}

// Invalidate drops one entry.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidateAll drops every entry.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len returns the number of cached entries, for diagnostics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Fetch is the typed convenience wrapper around Store.Get.
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, policy Policy, produce func(context.Context) (T, error)) (T, error) {
	value, err := s.Get(ctx, key, ttl, policy, func(ctx context.Context) (any, error) {
		return produce(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}
	return typed, nil
}
