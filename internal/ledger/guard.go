package ledger

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Guard serializes balance recomputes. At most one holder at a time;
// waiters are admitted in FIFO order.
type Guard struct {
	sem *semaphore.Weighted
}

// NewGuard returns an unlocked guard.
func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the guard is free or ctx is done.
func (g *Guard) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees the guard. It must follow a successful Acquire.
func (g *Guard) Release() {
	g.sem.Release(1)
}
