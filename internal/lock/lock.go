package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrNotAcquired = errors.New("slot lock not acquired")

// Locker guards the critical section around booking a slot, keyed by
// date plus slot label, so two requests for the same slot cannot both pass
// the conflict check.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// localLocker serializes slot bookings within a single process. It backs the
// in-memory store; the Redis locker covers multi-instance deployments.
type localLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLocker() Locker {
	return &localLocker{held: make(map[string]bool)}
}

func (l *localLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.held[key] {
		l.mu.Unlock()
		return ErrNotAcquired
	}
	l.held[key] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()

	return fn(ctx)
}
