package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of [Storage].
//
// A MemoryStore can emulate the failure modes of browser storage: a byte
// quota (Set fails with ErrQuotaExceeded) and a disabled store (every call
// fails with ErrUnavailable).
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	quota    int
	disabled bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithQuota limits the total size of keys and values in bytes.
// Zero or a negative value means no limit.
func WithQuota(bytes int) MemoryOption {
	return func(m *MemoryStore) {
		m.quota = bytes
	}
}

// WithDisabled makes every operation fail with ErrUnavailable.
func WithDisabled() MemoryOption {
	return func(m *MemoryStore) {
		m.disabled = true
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disabled {
		return "", ErrUnavailable
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrUnavailable
	}
	if m.quota > 0 {
		used := 0
		for k, v := range m.values {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used+len(key)+len(value) > m.quota {
			return ErrQuotaExceeded
		}
	}
	m.values[key] = value
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
