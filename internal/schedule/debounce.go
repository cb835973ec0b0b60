// Package schedule coalesces change notifications into recompute runs.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Debouncer owns a single pending slot per document. Any number of
// Notify calls while a run is already scheduled collapse into that one
// run. The slot is released before the callback fires, so a change
// arriving mid-run schedules a fresh run that sees the new content
// instead of being lost.
type Debouncer struct {
	settle  time.Duration
	pending chan struct{}
	run     func(context.Context)

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	cancel    context.CancelFunc
}

// NewDebouncer returns a stopped debouncer. settle is how long the
// worker waits after a notification before running, letting bursts of
// edits settle into one pass; zero means run immediately.
func NewDebouncer(settle time.Duration, run func(context.Context)) *Debouncer {
	if settle < 0 {
		settle = 0
	}
	return &Debouncer{
		settle:  settle,
		pending: make(chan struct{}, 1),
		run:     run,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (d *Debouncer) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		ctx, d.cancel = context.WithCancel(ctx)
		go d.loop(ctx)
	})
}

// Notify marks the document dirty. It never blocks: when a run is
// already pending the notification coalesces into it.
func (d *Debouncer) Notify() {
	select {
	case d.pending <- struct{}{}:
	default:
	}
}

// Stop cancels the worker and waits for it to exit. A run in flight
// finishes first. Stopping a debouncer that was never started is a
// no-op.
func (d *Debouncer) Stop() {
	d.stopOnce.Do(func() {
		if d.cancel == nil {
			return
		}
		d.cancel()
		<-d.done
	})
}

func (d *Debouncer) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.pending:
		}

		if d.settle > 0 {
			t := time.NewTimer(d.settle)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			// Edits that landed during the settle window are part of
			// this run, not a reason to schedule another.
			select {
			case <-d.pending:
			default:
			}
		}

		d.run(ctx)
	}
}
