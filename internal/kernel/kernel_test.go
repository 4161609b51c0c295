package kernel

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func noopBody(ctx context.Context) error { return nil }

func TestCreateTaskValidation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		k := New()
		if _, err := k.CreateTask("", MinStackHint, 1, time.Second, noopBody); err == nil {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("nonpositive period", func(t *testing.T) {
		k := New()
		if _, err := k.CreateTask("bad", MinStackHint, 1, 0, noopBody); err == nil {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("nil body", func(t *testing.T) {
		k := New()
		if _, err := k.CreateTask("bad", MinStackHint, 1, time.Second, nil); err == nil {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		k := New()
		if _, err := k.CreateTask("dup", MinStackHint, 1, time.Second, noopBody); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}
		if _, err := k.CreateTask("dup", MinStackHint, 2, time.Second, noopBody); err == nil {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("after start", func(t *testing.T) {
		k := New()
		k.started = true
		if _, err := k.CreateTask("late", MinStackHint, 1, time.Second, noopBody); !errors.Is(err, ErrStarted) {
			t.Fatalf("expected ErrStarted, got %v", err)
		}
	})
}

func TestStartWithoutTasks(t *testing.T) {
	k := New()
	if err := k.Start(context.Background()); err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestPriorityClamp(t *testing.T) {
	k := New()

	hi, err := k.CreateTask("hi", MinStackHint, MaxPriority+10, time.Second, noopBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hi.Priority != MaxPriority {
		t.Errorf("priority = %d, want %d", hi.Priority, MaxPriority)
	}

	lo, err := k.CreateTask("lo", MinStackHint, MinPriority-10, time.Second, noopBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo.Priority != MinPriority {
		t.Errorf("priority = %d, want %d", lo.Priority, MinPriority)
	}
}

func TestLoopRunsUntilCancelled(t *testing.T) {
	// The body never stops on its own; the iteration cap below is the only
	// way out, via context cancellation.
	const iterCap = 25

	k := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n atomic.Int64
	task, err := k.CreateTask("counter", MinStackHint, 1, time.Millisecond, func(ctx context.Context) error {
		if n.Add(1) == iterCap {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := k.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if got := n.Load(); got < iterCap {
		t.Errorf("body ran %d times, want at least %d", got, iterCap)
	}
	if got := task.Activations(); got < iterCap {
		t.Errorf("task recorded %d activations, want at least %d", got, iterCap)
	}
}

func TestEveryTaskActivatesWithinASecond(t *testing.T) {
	k := New()

	periods := map[string]time.Duration{
		"Task 1": 200 * time.Millisecond,
		"Task 2": 500 * time.Millisecond,
		"Task 3": 1000 * time.Millisecond,
		"Task 4": 100 * time.Millisecond,
	}
	prio := 1
	for name, period := range periods {
		if _, err := k.CreateTask(name, MinStackHint, prio, period, noopBody); err != nil {
			t.Fatalf("registering %s: %v", name, err)
		}
		prio++
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1100*time.Millisecond)
	defer cancel()

	if err := k.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for name := range periods {
		if got := k.Task(name).Activations(); got < 1 {
			t.Errorf("%s activated %d times, want at least 1", name, got)
		}
	}
}

func TestDelay(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		start := time.Now()
		if err := Delay(context.Background(), 20*time.Millisecond); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Errorf("returned after %v, want at least 20ms", elapsed)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := Delay(ctx, time.Hour); err == nil {
			t.Fatal("expected error, got none")
		}
	})
}

func TestTraceLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")

	k := New()
	if err := k.EnableTraceLog(path); err != nil {
		t.Fatalf("EnableTraceLog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n atomic.Int64
	task, err := k.CreateTask("traced", MinStackHint, 1, time.Millisecond, func(ctx context.Context) error {
		if n.Add(1) == 3 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := k.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening trace: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading trace: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("trace has %d records, want header plus events", len(records))
	}
	if got := records[0][2]; got != "event" {
		t.Errorf("header column = %q, want %q", got, "event")
	}

	activated := 0
	for i, rec := range records[1:] {
		if got := rec[3]; got != task.ID.String() {
			t.Errorf("record %d carries task id %q, want %q", i, got, task.ID)
		}
		if rec[2] == StatusActivated.String() && rec[4] == "traced" {
			activated++
		}
	}
	if activated < 3 {
		t.Errorf("trace recorded %d activations, want at least 3", activated)
	}
}

func TestTaskIDsAreDistinct(t *testing.T) {
	k := New()

	a, err := k.CreateTask("a", MinStackHint, 1, time.Second, noopBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := k.CreateTask("b", MinStackHint, 1, time.Second, noopBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.ID == uuid.Nil || b.ID == uuid.Nil {
		t.Fatal("task IDs must be assigned at registration")
	}
	if a.ID == b.ID {
		t.Errorf("tasks share the ID %s", a.ID)
	}

	// registration events carry the same IDs
	for _, want := range []*Task{a, b} {
		ev := <-k.StatusChannel()
		if ev.Kind != StatusCreated || ev.TaskID != want.ID {
			t.Errorf("event %+v, want Created for %s", ev, want.ID)
		}
	}
}
