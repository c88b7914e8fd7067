package core

// refresh_limiter.go bounds how many catalog fetches run at once.
//
// The periodic refresher and the manual refresh endpoint can both start a
// fetch. Each fetch takes a slot; when all slots are busy a caller waits up
// to maxWait and then gets ErrRefreshBusy without touching the snapshot.
// WaitForDrain lets shutdown wait for in-flight fetches.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRefreshBusy is returned when no fetch slot frees up within the wait time.
var ErrRefreshBusy = errors.New("too many catalog refreshes in progress")

// DefaultMaxConcurrentRefreshes is the default number of parallel fetches.
const DefaultMaxConcurrentRefreshes = 2

// DefaultRefreshWait is how long a refresh waits for a slot.
const DefaultRefreshWait = 10 * time.Second

// RefreshLimiter is a counting semaphore for catalog fetches.
type RefreshLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewRefreshLimiter allows at most maxConcurrent fetches. Non-positive
// arguments select the defaults.
func NewRefreshLimiter(maxConcurrent int, maxWait time.Duration) *RefreshLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRefreshes
	}
	if maxWait <= 0 {
		maxWait = DefaultRefreshWait
	}
	return &RefreshLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. The caller must Release it.
func (l *RefreshLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrRefreshBusy
	}
}

// Release returns a slot taken by Acquire.
func (l *RefreshLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// ActiveCount returns the number of fetches holding a slot.
func (l *RefreshLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *RefreshLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no fetch holds a slot or ctx is done.
func (l *RefreshLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
