package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/flipper/pkg/logger"
	"github.com/okian/flipper/pkg/metrics"
)

// DefaultTTL is how long optimization results stay cached.
const DefaultTTL = 300 * time.Second

type entry struct {
	value    any
	storedAt time.Time
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used by the eviction loop.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store is an in-memory TTL cache. Expired entries miss on Get and are
// removed by Evict, which Run calls periodically.
type Store struct {
	mu     sync.RWMutex
	data   map[string]entry
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

// NewStore creates a Store. A non-positive ttl uses DefaultTTL.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live value for key.
func (s *Store) Get(_ context.Context, key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok || !s.fresh(e, s.now()) {
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return e.value, true
}

// Set stores or replaces the value for key.
func (s *Store) Set(_ context.Context, key string, value any) {
	s.mu.Lock()
	s.data[key] = entry{value: value, storedAt: s.now()}
	n := len(s.data)
	s.mu.Unlock()
	metrics.UpdateCacheEntries(n)
}

// Purge drops every entry and returns how many were held.
func (s *Store) Purge() int {
	s.mu.Lock()
	n := len(s.data)
	s.data = make(map[string]entry)
	s.mu.Unlock()
	metrics.UpdateCacheEntries(0)
	return n
}

// Len returns the number of entries held, including expired ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) fresh(e entry, now time.Time) bool {
	return e.storedAt.After(now.Add(-s.ttl))
}

// Evict removes entries older than now minus the TTL and returns how many
// were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	removed := 0
	for key, e := range s.data {
		if !s.fresh(e, now) {
			delete(s.data, key)
			removed++
		}
	}
	n := len(s.data)
	s.mu.Unlock()

	if removed > 0 {
		metrics.RecordCacheEvictions(removed)
	}
	metrics.UpdateCacheEntries(n)
	return removed
}

// Run evicts expired entries every half TTL, at least once a second, until
// ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 && s.logger != nil {
				s.logger.Debug(ctx, "evicted expired cache entries", logger.Int("count", n))
			}
		}
	}
}
