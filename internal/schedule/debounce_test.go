package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func(context.Context) { runs.Add(1) })
	d.Start(context.Background())
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Notify()
	}
	time.Sleep(200 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Fatalf("expected 1 run for a burst of notifies, got %d", got)
	}
}

func TestDebouncerNotifyDuringRunSchedulesFreshRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32

	d := NewDebouncer(0, func(context.Context) {
		runs.Add(1)
		started <- struct{}{}
		<-release
	})
	d.Start(context.Background())

	d.Notify()
	<-started
	d.Notify()
	release <- struct{}{}

	<-started
	release <- struct{}{}

	d.Stop()
	if got := runs.Load(); got != 2 {
		t.Fatalf("expected a mid-run notify to cause a second run, got %d runs", got)
	}
}

func TestDebouncerZeroSettleRunsEachNotify(t *testing.T) {
	done := make(chan struct{}, 4)
	var runs atomic.Int32
	d := NewDebouncer(0, func(context.Context) {
		runs.Add(1)
		done <- struct{}{}
	})
	d.Start(context.Background())
	defer d.Stop()

	for i := 0; i < 3; i++ {
		d.Notify()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for run")
		}
	}

	if got := runs.Load(); got != 3 {
		t.Fatalf("expected 3 runs, got %d", got)
	}
}

func TestDebouncerStopEndsWorker(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(0, func(context.Context) { runs.Add(1) })
	d.Start(context.Background())

	d.Stop()
	d.Notify()
	time.Sleep(50 * time.Millisecond)

	if got := runs.Load(); got != 0 {
		t.Fatalf("expected no runs after stop, got %d", got)
	}
	// Stop is idempotent.
	d.Stop()
}

func TestDebouncerStopWithoutStart(t *testing.T) {
	d := NewDebouncer(time.Second, func(context.Context) {})
	d.Stop()
}

func TestDebouncerParentContextCancelStopsWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	d := NewDebouncer(0, func(context.Context) { runs.Add(1) })
	d.Start(ctx)

	cancel()
	time.Sleep(20 * time.Millisecond)
	d.Notify()
	time.Sleep(50 * time.Millisecond)

	if got := runs.Load(); got != 0 {
		t.Fatalf("expected no runs after context cancel, got %d", got)
	}
	d.Stop()
}
