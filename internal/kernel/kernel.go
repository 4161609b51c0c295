// internal/kernel/kernel.go

package kernel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"

	"blinky/internal/logging"
)

// ErrStarted is returned when a task is registered after Start.
var ErrStarted = errors.New("kernel already started")

// Kernel runs a fixed set of periodic tasks, one goroutine per task, and
// streams status events. Tasks are registered before Start and run forever;
// there is no preemption and no cross-task state, each body simply runs and
// then parks for its period.
type Kernel struct {
	// task-set related
	mu        sync.Mutex         // protects the registry
	rbt       *redblacktree.Tree // registry ordered by priority, then creation order
	tasks     map[string]*Task   // all tasks by name
	seq       int                // creation order counter
	started   bool
	startedAt time.Time
	statusCh  chan StatusEvent // channel for status events

	// trace-related
	csvFile   *os.File
	csvWriter *csv.Writer
}

// New creates an empty Kernel ready for task registration.
func New() *Kernel {
	return &Kernel{
		rbt:      redblacktree.NewWith(cmp),
		tasks:    make(map[string]*Task),
		statusCh: make(chan StatusEvent, 256), // buffered channel for status events
	}
}

// EnableTraceLog opens the given file path for CSV logging of activation
// events. Must be called before Start().
func (k *Kernel) EnableTraceLog(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "uptime_ms", "event", "task_id", "task", "activation", "took_us"})
	w.Flush()
	k.csvFile = f
	k.csvWriter = w
	return nil
}

// StatusChannel exposes read-only stream (optional consumers).
func (k *Kernel) StatusChannel() <-chan StatusEvent { return k.statusCh }

// CreateTask registers a periodic task. The stack hint is recorded but not
// acted on. Registration is rejected once the kernel has started.
func (k *Kernel) CreateTask(name string, stackHint, priority int, period time.Duration, body Body) (*Task, error) {
	if name == "" {
		return nil, errors.New("task name must not be empty")
	}
	if period <= 0 {
		return nil, fmt.Errorf("task %q: period must be positive, got %v", name, period)
	}
	if body == nil {
		return nil, fmt.Errorf("task %q: body must not be nil", name)
	}

	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return nil, ErrStarted
	}
	if _, dup := k.tasks[name]; dup {
		k.mu.Unlock()
		return nil, fmt.Errorf("task %q already exists", name)
	}

	t := newTask(name, stackHint, priority, period, body)
	k.rbt.Put(nodeKey{t.Priority, k.seq}, t)
	k.seq++
	k.tasks[name] = t

	eventData := StatusEvent{
		Time:   time.Now(),
		Kind:   StatusCreated,
		TaskID: t.ID,
		Task:   t.Name,
	}
	k.mu.Unlock() // NOTE: Unlock before sending to avoid deadlock if the channel is full
	taskPeriod.WithLabelValues(t.Name).Set(period.Seconds())
	k.statusCh <- eventData
	return t, nil
}

// Task returns the registered task with the given name, or nil.
func (k *Kernel) Task(name string) *Task {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tasks[name]
}

// Start launches every registered task in priority order and consumes the
// event stream. Under normal operation it does not return: the demo passes a
// background context and the tasks run forever. It returns once ctx is
// cancelled and every task goroutine has wound down, or immediately with an
// error when the task set is unusable.
func (k *Kernel) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return ErrStarted
	}
	if k.rbt.Size() == 0 {
		k.mu.Unlock()
		return errors.New("no tasks registered")
	}
	k.started = true
	k.startedAt = time.Now()

	var wg sync.WaitGroup
	it := k.rbt.Iterator()
	for it.Next() {
		t := it.Value().(*Task)
		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			k.run(ctx, t)
		}(t)
	}
	k.mu.Unlock()

	// close the stream once the last task goroutine exits
	go func() {
		wg.Wait()
		close(k.statusCh)
	}()

	// consume events
	for ev := range k.statusCh {
		k.handleEvent(ev)
	}

	if k.csvFile != nil {
		k.csvWriter.Flush()
		k.csvFile.Close()
	}

	return nil
}

// run is one task's loop: activate the body, report, park for the period.
// It exits only when ctx is cancelled.
func (k *Kernel) run(ctx context.Context, t *Task) {
	for {
		if ctx.Err() != nil {
			k.statusCh <- StatusEvent{Time: time.Now(), Kind: StatusStopped, TaskID: t.ID, Task: t.Name, Activation: t.activations.Load()}
			return
		}

		startedAt := time.Now()
		if err := t.Body(ctx); err != nil {
			// the demo bodies have no failure path; surface anything unexpected
			logging.Log.Error().Err(err).Str("task", t.Name).Msg("activation failed")
		}
		took := time.Since(startedAt)
		n := t.activations.Add(1)

		taskActivations.WithLabelValues(t.Name).Inc()
		activationDuration.WithLabelValues(t.Name).Observe(took.Seconds())

		k.statusCh <- StatusEvent{
			Time:       time.Now(),
			Kind:       StatusActivated,
			TaskID:     t.ID,
			Task:       t.Name,
			Activation: n,
			Took:       took,
		}

		k.statusCh <- StatusEvent{Time: time.Now(), Kind: StatusSuspended, TaskID: t.ID, Task: t.Name, Activation: n}
		if err := Delay(ctx, t.Period); err != nil {
			k.statusCh <- StatusEvent{Time: time.Now(), Kind: StatusStopped, TaskID: t.ID, Task: t.Name, Activation: n}
			return
		}
	}
}

// Delay parks the calling task for d, the fixed gap between the end of one
// activation and the start of the next. It returns early with ctx.Err() when
// the kernel is winding down.
func Delay(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (k *Kernel) handleEvent(ev StatusEvent) {
	// suspension happens after every single activation, so logging it would
	// just double the noise. The CSV trace still records it below.
	if ev.Kind != StatusSuspended {
		logging.Log.Debug().
			Str("task_id", ev.TaskID.String()).
			Str("task", ev.Task).
			Int64("activation", ev.Activation).
			Dur("took", ev.Took).
			Msg(ev.Kind.String())
	}

	// CSV output
	if k.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			strconv.FormatInt(time.Since(k.startedAt).Milliseconds(), 10),
			ev.Kind.String(),
			ev.TaskID.String(),
			ev.Task,
			strconv.FormatInt(ev.Activation, 10),
			strconv.FormatInt(ev.Took.Microseconds(), 10),
		}
		k.csvWriter.Write(rec)
		k.csvWriter.Flush()
	}
}

// nodeKey is used as a key in the red-black tree.
type nodeKey struct {
	priority int
	seq      int
}

// cmp orders the registry by descending priority; creation order breaks ties
// so the launch sequence is deterministic.
func cmp(a, b any) int {
	ka, kb := a.(nodeKey), b.(nodeKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
