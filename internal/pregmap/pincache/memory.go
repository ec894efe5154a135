package pincache

import (
	"context"
	"sync"
)

// MemoryTier is the process-local tier. It is safe for concurrent use.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string]Entry)}
}

func (m *MemoryTier) Get(_ context.Context, accountID string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[accountID]
	return e, ok, nil
}

func (m *MemoryTier) Put(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.AccountID] = e
	return nil
}

func (m *MemoryTier) Delete(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, accountID)
	return nil
}

func (m *MemoryTier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
