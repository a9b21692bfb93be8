package audit

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestLogger_CapsEntries(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory(), store.Options{}, 3, "test", fixedClock(time.Now()))
	for i := 0; i < 5; i++ {
		if err := l.Log(ctx, Event{Action: "booking_created", Entity: "booking", EntityID: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}
	logs, total, err := l.List(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(logs) != 3 {
		t.Fatalf("expected 3 retained entries, got total=%d len=%d", total, len(logs))
	}
	if logs[0].EntityID != "e" || logs[2].EntityID != "c" {
		t.Fatalf("expected newest first, got %s..%s", logs[0].EntityID, logs[2].EntityID)
	}
}

func TestLogger_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory(), store.Options{}, 0, "test", fixedClock(time.Now()))
	for _, action := range []string{"booking_created", "booking_cancelled", "booking_created", "user_registered"} {
		_ = l.Log(ctx, Event{Action: action, Entity: "booking", Metadata: map[string]string{"k": "v"}})
	}

	logs, total, _ := l.List(ctx, Filter{Action: "booking_created"})
	if total != 2 || len(logs) != 2 {
		t.Fatalf("action filter: total=%d", total)
	}
	if logs[0].Metadata != `{"k":"v"}` {
		t.Fatalf("metadata not encoded: %q", logs[0].Metadata)
	}

	logs, total, _ = l.List(ctx, Filter{Page: 2, Limit: 3})
	if total != 4 || len(logs) != 1 {
		t.Fatalf("paging: total=%d len=%d", total, len(logs))
	}

	logs, _, _ = l.List(ctx, Filter{Page: 5, Limit: 3})
	if len(logs) != 0 {
		t.Fatalf("page past the end should be empty")
	}
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory(), store.Options{}, 0, "test", nil)
	d := NewDispatcher(l, zaptest.NewLogger(t))

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "booking_completed", Entity: "booking"})
	}
	d.Close()
	d.Close()
	d.Dispatch(Event{Action: "after_close"})

	_, total, err := l.List(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 10 {
		t.Fatalf("expected 10 drained events, got %d", total)
	}
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}
