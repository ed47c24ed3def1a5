// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately, then on every tick, and emits each PollResult
// on out. It returns when ctx is done. No overlap: a tick that fires during
// a slow fetch is dropped by the ticker. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	if !p.emit(ctx, out) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.emit(ctx, out) {
				return
			}
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan<- PollResult) bool {
	res := p.PollOnce(ctx)
	if ctx.Err() != nil {
		// Cancelled mid-cycle: the result describes the shutdown, not the backend.
		return false
	}
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}

// Handle owns a running poll schedule.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs the poller in its own goroutine until Stop is called or ctx is done.
func (p *Poller) Start(ctx context.Context, out chan<- PollResult) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		p.Run(ctx, out)
	}()

	return h
}

// Stop cancels the schedule and waits for the in-flight cycle to return.
// Safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the schedule has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }
