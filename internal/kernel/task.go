package kernel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Priority range accepted by the kernel. Higher means more urgent.
const (
	MinPriority = 0
	MaxPriority = 7
)

// MinStackHint is the smallest stack hint callers usually pass. Goroutine
// stacks grow on demand, so the hint is recorded for reporting only.
const MinStackHint = 4 << 10

// Body is one activation of a periodic task. It is invoked repeatedly by the
// kernel, once per period, until the kernel's context is cancelled.
type Body func(ctx context.Context) error

// Task is one registered periodic task. Its scratch state lives inside the
// Body closure and is owned exclusively by the task goroutine.
type Task struct {
	ID        uuid.UUID
	Name      string
	Priority  int
	StackHint int
	Period    time.Duration
	Body      Body

	activations atomic.Int64
}

// newTask builds a task with the priority clamped into the legal range.
func newTask(name string, stackHint, priority int, period time.Duration, body Body) *Task {
	if priority < MinPriority {
		priority = MinPriority
	} else if priority > MaxPriority {
		priority = MaxPriority
	}

	return &Task{
		ID:        uuid.New(),
		Name:      name,
		Priority:  priority,
		StackHint: stackHint,
		Period:    period,
		Body:      body,
	}
}

// Activations returns how many times the body has completed so far.
func (t *Task) Activations() int64 {
	return t.activations.Load()
}
