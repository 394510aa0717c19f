package dom_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/dom"
)

func TestManualClockFiresInDeadlineOrder(t *testing.T) {
	clock := &dom.ManualClock{}
	var fired []string
	clock.After(300*time.Millisecond, func() { fired = append(fired, "slow") })
	clock.After(100*time.Millisecond, func() { fired = append(fired, "fast") })
	clock.After(100*time.Millisecond, func() { fired = append(fired, "fast-2") })

	clock.Advance(50 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("nothing is due yet, fired %v", fired)
	}
	clock.Advance(50 * time.Millisecond)
	if diff := cmp.Diff([]string{"fast", "fast-2"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
	if clock.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", clock.Pending())
	}
	clock.Advance(time.Second)
	if diff := cmp.Diff([]string{"fast", "fast-2", "slow"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestManualClockRunsNestedTimersWhenDue(t *testing.T) {
	clock := &dom.ManualClock{}
	var fired []string
	clock.After(10*time.Millisecond, func() {
		fired = append(fired, "outer")
		clock.After(0, func() { fired = append(fired, "inner") })
	})
	clock.Advance(10 * time.Millisecond)
	if diff := cmp.Diff([]string{"outer", "inner"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopDrainRunsCallbacksOnCaller(t *testing.T) {
	loop := dom.NewLoop()
	var order []int
	loop.After(5*time.Millisecond, func() {
		order = append(order, 2)
		loop.Post(func() { order = append(order, 3) })
	})
	loop.Post(func() { order = append(order, 1) })

	if loop.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", loop.Pending())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := loop.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	position := map[int]int{}
	for i, v := range order {
		position[v] = i
	}
	if len(order) != 3 || len(position) != 3 || position[3] < position[2] {
		t.Fatalf("unexpected order %v", order)
	}
	if loop.Pending() != 0 {
		t.Fatalf("pending = %d after drain", loop.Pending())
	}
}

func TestLoopDrainHonoursContext(t *testing.T) {
	loop := dom.NewLoop()
	loop.After(time.Hour, func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := loop.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Drain error = %v, want deadline exceeded", err)
	}
}

func TestImmediateRunsSynchronously(t *testing.T) {
	ran := false
	dom.Immediate{}.After(time.Hour, func() { ran = true })
	if !ran {
		t.Fatalf("Immediate must run the callback at once")
	}
}

func TestEventFlags(t *testing.T) {
	evt := dom.NewEvent(nil, "click", nil)
	if evt.Context() == nil {
		t.Fatalf("nil context should default to background")
	}
	evt.PreventDefault()
	evt.StopPropagation()
	if !evt.DefaultPrevented() || !evt.Stopped() {
		t.Fatalf("flags not recorded")
	}
}
