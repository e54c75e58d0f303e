// Package lock serializes wake triggers so one open record is closed at most once.
package lock

import (
	"context"
	"sync"

	"github.com/yourname/sleeprelay/internal"
)

// Locker acquires a named lock without waiting. If the lock is held,
// Acquire returns internal.ErrWakeInProgress.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Memory is a process-local Locker.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return nil, internal.ErrWakeInProgress
	}
	m.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, nil
}

var _ Locker = (*Memory)(nil)
