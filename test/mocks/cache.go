// Package mocks provides in-memory test doubles for the cache and repositories.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockCache is an in-memory mock implementation of the Cache interface.
// Used for testing without requiring a real Redis instance.
type MockCache struct {
	data    map[string]interface{}
	expires map[string]time.Time
	mu      sync.RWMutex

	// Err, when set, is returned by every operation to simulate an outage.
	Err error
	// Now is the clock used for expirations.
	Now func() time.Time
}

// NewMockCache creates a new mock cache instance
func NewMockCache() *MockCache {
	return &MockCache{
		data:    make(map[string]interface{}),
		expires: make(map[string]time.Time),
		Now:     time.Now,
	}
}

// SetErr makes subsequent calls fail with err; nil restores normal behaviour.
func (m *MockCache) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// expired reports whether key has passed its TTL. Callers hold the lock.
func (m *MockCache) expired(key string) bool {
	at, ok := m.expires[key]
	return ok && !m.Now().Before(at)
}

func (m *MockCache) lookup(key string) (interface{}, bool) {
	if m.expired(key) {
		return nil, false
	}
	val, exists := m.data[key]
	return val, exists
}

// Get retrieves a value from the mock cache
func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return "", m.Err
	}

	val, exists := m.lookup(key)
	if !exists {
		return "", nil // Return empty string for non-existent keys (like Redis)
	}

	return fmt.Sprintf("%v", val), nil
}

// Set stores a value in the mock cache
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.data[key] = value
	m.setTTL(key, expiration)
	return nil
}

func (m *MockCache) setTTL(key string, expiration time.Duration) {
	if expiration > 0 {
		m.expires[key] = m.Now().Add(expiration)
	} else {
		delete(m.expires, key)
	}
}

// Del deletes keys from the mock cache
func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	for _, key := range keys {
		delete(m.data, key)
		delete(m.expires, key)
	}
	return nil
}

// Exists checks if keys exist in the mock cache
func (m *MockCache) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return 0, m.Err
	}

	var count int64
	for _, key := range keys {
		if _, exists := m.lookup(key); exists {
			count++
		}
	}
	return count, nil
}

// SetNX sets a key only if it doesn't exist
func (m *MockCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}

	if _, exists := m.lookup(key); exists {
		return false, nil
	}

	m.data[key] = value
	m.setTTL(key, expiration)
	return true, nil
}

// Expire sets an expiration on a key
func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.data[key]; exists {
		m.setTTL(key, expiration)
	}
	return nil
}

// Health returns the simulated error, if any
func (m *MockCache) Health(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Err
}

// Close is a no-op for mock
func (m *MockCache) Close() error {
	return nil
}

// Keys returns the number of live keys (useful for tests)
func (m *MockCache) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for key := range m.data {
		if !m.expired(key) {
			n++
		}
	}
	return n
}

// Clear resets the mock cache (useful for tests)
func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]interface{})
	m.expires = make(map[string]time.Time)
}
