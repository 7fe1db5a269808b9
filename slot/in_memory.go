package slot

import (
	"context"
	"sync"
)

// InMemory is a trivial in‑process Slot useful for tests, examples and
// single‑process prototypes. Data is copied on save / load to avoid
// accidental external mutation of internal buffers.
type InMemory struct {
	mu    sync.RWMutex
	data  []byte
	saved bool
	saves int
}

// NewInMemory returns an empty in‑memory slot.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// NewInMemoryWith returns a slot pre-populated with data, as if it had been
// saved by a previous session.
func NewInMemoryWith(data []byte) *InMemory {
	s := &InMemory{}
	s.data = append([]byte(nil), data...)
	s.saved = true
	return s
}

// Load returns a copy of the stored bytes or ErrEmpty.
func (s *InMemory) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, ErrEmpty
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp, nil
}

// Save replaces the stored bytes. The input slice is copied before storage.
func (s *InMemory) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0:0], data...)
	s.saved = true
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *InMemory) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
