package internal

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Policy decides what a Guard does with a submit that arrives while another is running
type Policy int

const (
	// PolicyReject refuses the new submit with ErrBusy
	PolicyReject Policy = iota
	// PolicyReplace cancels the running submit and starts the new one
	PolicyReplace
)

// Guard allows one outstanding task per screen
type Guard struct {
	policy Policy
	sem    *semaphore.Weighted

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewGuard creates a guard with the given policy
func NewGuard(policy Policy) *Guard {
	return &Guard{policy: policy, sem: semaphore.NewWeighted(1)}
}

// Run executes fn under the guard. The context passed to fn is canceled when
// the task is replaced or when Run returns, which also stops any timers it owns.
func (g *Guard) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.policy == PolicyReject {
		if !g.sem.TryAcquire(1) {
			return ErrBusy
		}
		defer g.sem.Release(1)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	g.mu.Lock()
	if g.cancel != nil {
		LogDebug("Canceling in-flight request")
		g.cancel()
	}
	g.seq++
	id := g.seq
	g.cancel = cancel
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		if g.seq == id {
			g.cancel = nil
		}
		g.mu.Unlock()
		cancel()
	}()

	return fn(taskCtx)
}

// Busy reports whether a task is currently running
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

// Cancel stops the running task, if any
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}
