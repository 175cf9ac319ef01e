// Package localstore provides the key-value blob stores that back the local
// cache: process memory, a sqlite file, or redis.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound      = errors.New("localstore: key not found")
	ErrQuotaExceeded = errors.New("localstore: storage quota exceeded")
)

// Store is a key-value blob store.
type Store interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// QuotaStore caps the total size of the values written through it.
type QuotaStore struct {
	next     Store
	maxBytes int

	mu    sync.Mutex
	sizes map[string]int
	total int
}

// WithQuota wraps next so that a Set pushing the total stored bytes past
// maxBytes fails with ErrQuotaExceeded and leaves the old value in place.
// A non-positive maxBytes disables the limit.
func WithQuota(next Store, maxBytes int) *QuotaStore {
	return &QuotaStore{next: next, maxBytes: maxBytes, sizes: make(map[string]int)}
}

func (q *QuotaStore) Get(ctx context.Context, key string) ([]byte, error) {
	return q.next.Get(ctx, key)
}

func (q *QuotaStore) Set(ctx context.Context, key string, value []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	prev, err := q.sizeOf(ctx, key)
	if err != nil {
		return err
	}
	total := q.total - prev + len(value)
	if q.maxBytes > 0 && total > q.maxBytes {
		return fmt.Errorf("%w: writing %q needs %d bytes, limit is %d", ErrQuotaExceeded, key, total, q.maxBytes)
	}
	if err := q.next.Set(ctx, key, value); err != nil {
		return err
	}
	q.sizes[key] = len(value)
	q.total = total
	return nil
}

func (q *QuotaStore) Remove(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	prev, err := q.sizeOf(ctx, key)
	if err != nil {
		return err
	}
	if err := q.next.Remove(ctx, key); err != nil {
		return err
	}
	q.sizes[key] = 0
	q.total -= prev
	return nil
}

// sizeOf learns the size of a key the first time it is touched so values
// persisted by an earlier process count against the quota.
func (q *QuotaStore) sizeOf(ctx context.Context, key string) (int, error) {
	if n, ok := q.sizes[key]; ok {
		return n, nil
	}
	v, err := q.next.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		v = nil
	case err != nil:
		return 0, fmt.Errorf("failed to read %q: %w", key, err)
	}
	q.sizes[key] = len(v)
	q.total += len(v)
	return len(v), nil
}
