package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("appointment not found")
	ErrValidation = errors.New("validation failed")
)

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// Store holds the authoritative appointment collection for the process.
// Implementations must preserve insertion order in ListByDate and notify
// subscribed observers after every successful mutation.
type Store interface {
	// Create inserts a new appointment. The caller fills in ID, timestamps
	// and the status default before calling.
	Create(ctx context.Context, a Appointment) (*Appointment, error)

	// Put replaces the appointment with a matching ID, or inserts it when no
	// such appointment exists. The second return value reports an insert.
	Put(ctx context.Context, a Appointment) (*Appointment, bool, error)

	// SetStatus mutates only the status of the identified appointment and
	// returns the updated record, or ErrNotFound.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListByDate returns all appointments on date in insertion order.
	ListByDate(ctx context.Context, date string) ([]Appointment, error)

	// FindActiveBySlot returns a non-cancelled appointment holding the given
	// date and slot, or ErrNotFound when the slot is free.
	FindActiveBySlot(ctx context.Context, date, slot string) (*Appointment, error)

	InsertEvent(ctx context.Context, ev EventLog) error

	// Subscribe registers an observer called after each mutation.
	Subscribe(fn func())
}

// notifier implements observer registration for both store backends.
type notifier struct {
	mu        sync.Mutex
	observers []func()
}

func (n *notifier) Subscribe(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

func (n *notifier) notify() {
	n.mu.Lock()
	obs := make([]func(), len(n.observers))
	copy(obs, n.observers)
	n.mu.Unlock()

	for _, fn := range obs {
		fn()
	}
}
