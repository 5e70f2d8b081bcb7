package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryThrottle is the in-process fallback when redis is unavailable.
type MemoryThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
}

type throttleEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryThrottle() *MemoryThrottle {
	return &MemoryThrottle{entries: make(map[string]*throttleEntry)}
}

func (m *MemoryThrottle) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &throttleEntry{count: 1, expiresAt: now.Add(window)}
		m.entries[key] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
