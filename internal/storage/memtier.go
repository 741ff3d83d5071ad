package storage

import (
	"sync"

	"nestboard/internal/port"
)

// MemoryTier is the session storage tier: process-lifetime only, cleared by
// exit the way a browser session store is cleared by closing the tab.
type MemoryTier struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryTier creates an empty session tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{data: map[string]string{}}
}

func (t *MemoryTier) Get(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	return v, ok
}

func (t *MemoryTier) Set(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[key] = value
	return nil
}

func (t *MemoryTier) Delete(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, key)
	return nil
}

// Compile-time check.
var _ port.Tier = (*MemoryTier)(nil)
