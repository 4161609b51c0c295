package kernel

import (
	"time"

	"github.com/google/uuid"
)

// StatusKind represents the type of kernel event
type StatusKind int

const (
	StatusCreated StatusKind = iota
	StatusActivated
	StatusSuspended
	StatusStopped
)

// StatusEvent is emitted when a task is registered, finishes an activation,
// parks for its period, or winds down.
type StatusEvent struct {
	Time       time.Time
	Kind       StatusKind
	TaskID     uuid.UUID
	Task       string
	Activation int64
	Took       time.Duration
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusCreated:
		return "Created"
	case StatusActivated:
		return "Activated"
	case StatusSuspended:
		return "Suspended"
	case StatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
