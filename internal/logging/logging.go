package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance. Output goes to stderr: stdout is
// reserved for the task messages themselves.
var Log zerolog.Logger

func init() {
	Log = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}

// Setup reconfigures the global logger. With pretty set, events are rendered
// human-readable instead of JSON.
func Setup(pretty bool) {
	SetupWithWriter(pretty, os.Stderr)
}

// SetupWithWriter is Setup with an explicit sink, for tests.
func SetupWithWriter(pretty bool, w io.Writer) {
	logger := zerolog.New(w).
		With().
		Timestamp().
		Logger()

	if pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	Log = logger
}
