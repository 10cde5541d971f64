package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the appointment collection in process memory. It is the
// default backend: state lives for the lifetime of the process and nothing is
// persisted. A mutex keeps it safe under the HTTP server's goroutines.
type MemoryStore struct {
	notifier

	mu     sync.RWMutex
	order  []uuid.UUID
	byID   map[uuid.UUID]Appointment
	events []EventLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[uuid.UUID]Appointment),
	}
}

func (s *MemoryStore) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	s.mu.Lock()
	if _, exists := s.byID[a.ID]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: duplicate appointment id %s", ErrValidation, a.ID)
	}
	s.byID[a.ID] = a
	s.order = append(s.order, a.ID)
	s.mu.Unlock()

	s.notify()
	out := a
	return &out, nil
}

func (s *MemoryStore) Put(ctx context.Context, a Appointment) (*Appointment, bool, error) {
	s.mu.Lock()
	prev, exists := s.byID[a.ID]
	if exists {
		// Replacement keeps the original creation time and list position.
		a.CreatedAt = prev.CreatedAt
	} else {
		s.order = append(s.order, a.ID)
	}
	s.byID[a.ID] = a
	s.mu.Unlock()

	s.notify()
	out := a
	return &out, !exists, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	s.mu.Lock()
	a, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	s.byID[id] = a
	s.mu.Unlock()

	s.notify()
	out := a
	return &out, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := a
	return &out, nil
}

func (s *MemoryStore) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Appointment
	for _, id := range s.order {
		a := s.byID[id]
		if a.Date == date {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *MemoryStore) FindActiveBySlot(ctx context.Context, date, slot string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		a := s.byID[id]
		if a.Date == date && a.Time == slot && a.Status != StatusCancelled {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertEvent(ctx context.Context, ev EventLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = int64(len(s.events) + 1)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	s.events = append(s.events, ev)
	return nil
}

// Events returns a snapshot of the event log, oldest first.
func (s *MemoryStore) Events() []EventLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]EventLog, len(s.events))
	copy(out, s.events)
	return out
}
