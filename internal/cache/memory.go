package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory is an in-process Cache with lazy expiry. Used by tests and as the
// runtime fallback when no database is configured. Last writer wins; cache
// entries are idempotent so that is acceptable.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source (tests only)
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get returns the payload if present and unexpired. Expired entries are
// evicted lazily here rather than by a background timer.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	now := m.now()
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if now.Sub(entry.storedAt) > entry.ttl {
		// Re-check under the write lock: a Set may have stored a fresh
		// value between the read above and the delete.
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && m.now().Sub(current.storedAt) > current.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores the payload under key for ttl
func (m *Memory) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{payload: payload, storedAt: m.now(), ttl: ttl}
	return nil
}

// Purge drops every expired entry and returns how many were removed
func (m *Memory) Purge(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if now.Sub(entry.storedAt) > entry.ttl {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired or not
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
