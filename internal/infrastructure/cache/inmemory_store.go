package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryStore implements Store in process memory.
// Entries are not shared across instances.
type InMemoryStore struct {
	entries sync.Map // map[string]*entry
	stopCh  chan struct{}
	stopped int32
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewInMemoryStore creates a store and starts its expiry sweeper
func NewInMemoryStore() *InMemoryStore {
	return newInMemoryStore(defaultCleanupInterval)
}

func newInMemoryStore(cleanupInterval time.Duration) *InMemoryStore {
	s := &InMemoryStore{stopCh: make(chan struct{})}
	go s.cleanupExpired(cleanupInterval)
	return s
}

// Get returns a copy of the cached value
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	e := v.(*entry)
	if e.isExpired(time.Now()) {
		s.entries.Delete(key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := &entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.entries.Store(key, e)
	return nil
}

// Delete removes the keys
func (s *InMemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.entries.Delete(key)
	}
	return nil
}

// Close stops the sweeper. It is safe to call more than once.
func (s *InMemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

func (s *InMemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.entries.Range(func(key, value any) bool {
				if value.(*entry).isExpired(now) {
					s.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ Store = (*InMemoryStore)(nil)
