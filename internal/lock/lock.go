// Package lock provides the mutual exclusion that keeps at most one dispatch
// scan running at a time.
package lock

import (
	"context"
	"sync"
)

// Locker is a non-blocking lock. TryLock reports whether the caller now owns
// the lock; the returned release func must be called exactly once when it does.
type Locker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// Local guards scans inside a single process.
type Local struct {
	mu sync.Mutex
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) TryLock(_ context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	return l.mu.Unlock, true, nil
}
