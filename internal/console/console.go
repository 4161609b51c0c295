// Package console is the shared output collaborator for the demo tasks.
// Multiple tasks print concurrently, so each message is formatted first and
// then written with a single Write call under a mutex. Ordering across tasks
// is not guaranteed, only that messages never interleave.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console serializes formatted writes to one underlying writer.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Console writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Stdout returns a Console writing to standard output.
func Stdout() *Console {
	return New(os.Stdout)
}

// Printf formats the message and emits it as one indivisible write. Write
// errors are ignored, the demo has nowhere to surface them.
func (c *Console) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	c.mu.Lock()
	_, _ = c.w.Write([]byte(msg))
	c.mu.Unlock()
}
