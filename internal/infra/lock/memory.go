package lock

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLocker is an in-process AgencyLocker.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMemoryLocker creates a MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]chan struct{})}
}

func (m *MemoryLocker) slot(agency string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[agency]
	if !ok {
		s = make(chan struct{}, 1)
		m.slots[agency] = s
	}
	return s
}

// Lock blocks until the agency's lock is free or ctx is done.
func (m *MemoryLocker) Lock(ctx context.Context, agency string) (Unlock, error) {
	s := m.slot(agency)
	select {
	case s <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, agency, ctx.Err())
	}
	var once sync.Once
	return func() { once.Do(func() { <-s }) }, nil
}
