package fix

import (
	"context"
	"sync/atomic"
)

// Guard lets one request through to the wrapped fixer at a time. A request
// arriving while another is outstanding fails at once with ErrFixInProgress
// instead of queueing.
type Guard struct {
	inner Fixer
	busy  atomic.Bool
}

// NewGuard wraps f.
func NewGuard(f Fixer) *Guard { return &Guard{inner: f} }

// Fix implements Fixer.
func (g *Guard) Fix(ctx context.Context, req Request) (Result, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return Result{}, ErrFixInProgress
	}
	defer g.busy.Store(false)
	return g.inner.Fix(ctx, req)
}

// Busy reports whether a request is outstanding.
func (g *Guard) Busy() bool { return g.busy.Load() }
