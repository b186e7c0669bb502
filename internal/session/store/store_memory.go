package store

import (
	"context"
	"sync"
)

// MemorySlots keeps the session in process memory. Used by tests and by the
// CLI's -ephemeral mode.
type MemorySlots struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{}
}

func (m *MemorySlots) Load(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil, ErrNotFound
	}
	cp := *m.snapshot
	return &cp, nil
}

func (m *MemorySlots) Save(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &s
	return nil
}

func (m *MemorySlots) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}
