package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/appointment-scheduling/internal/config"
	"github.com/medicore/appointment-scheduling/internal/lock"
)

const (
	EventBooked        = "APPOINTMENT_BOOKED"
	EventRescheduled   = "APPOINTMENT_RESCHEDULED"
	EventStatusChanged = "APPOINTMENT_STATUS_CHANGED"
)

var (
	ErrSlotTaken           = errors.New("slot already has an active appointment")
	ErrSlotBeingBooked     = errors.New("slot is currently being booked, please retry")
	ErrInvalidInitialState = errors.New("appointments start as Pending or Urgent")
)

type Service struct {
	store  Store
	locker lock.Locker
	cfg    config.Config
}

func NewService(store Store, locker lock.Locker, cfg config.Config) *Service {
	return &Service{
		store:  store,
		locker: locker,
		cfg:    cfg,
	}
}

// BookRequest carries the create-dialog fields. Status may be empty (defaults
// to Pending) or Urgent for emergency intake.
type BookRequest struct {
	PatientName  string
	PatientPhone string
	Date         string
	Time         string
	Duration     int
	Type         AppointmentType
	Status       Status
	Notes        string
}

// Book reserves a slot for a patient. Unless double booking is allowed by
// configuration, it refuses a slot already held by a non-cancelled
// appointment on the same date; the check runs under a per-slot lock so
// concurrent requests cannot both pass it.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusUrgent {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidInitialState, status)
	}

	now := time.Now()
	appt := Appointment{
		ID:           uuid.New(),
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Type:         req.Type,
		Status:       status,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := appt.Validate(); err != nil {
		return nil, err
	}

	var created *Appointment

	err := s.locker.WithSlotLock(ctx, slotKey(appt.Date, appt.Time), func(lockCtx context.Context) error {
		if !s.cfg.AllowDoubleBooking {
			holder, err := s.store.FindActiveBySlot(lockCtx, appt.Date, appt.Time)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("check slot holder: %w", err)
			}
			if holder != nil {
				return ErrSlotTaken
			}
		}

		out, err := s.store.Create(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		created = out

		s.logEvent(lockCtx, out.ID, EventBooked, map[string]any{
			"date":   out.Date,
			"slot":   out.Time,
			"status": out.Status,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

// Reschedule replaces the appointment with a matching id, inserting when the
// id is unknown. The second return value reports an insert. The target slot
// is subject to the same conflict policy as Book, except against the
// appointment itself.
func (s *Service) Reschedule(ctx context.Context, a Appointment) (*Appointment, bool, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = a.UpdatedAt
	}
	if err := a.Validate(); err != nil {
		return nil, false, err
	}

	var (
		saved   *Appointment
		created bool
	)

	err := s.locker.WithSlotLock(ctx, slotKey(a.Date, a.Time), func(lockCtx context.Context) error {
		if !s.cfg.AllowDoubleBooking {
			holder, err := s.store.FindActiveBySlot(lockCtx, a.Date, a.Time)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("check slot holder: %w", err)
			}
			if holder != nil && holder.ID != a.ID {
				return ErrSlotTaken
			}
		}

		out, ins, err := s.store.Put(lockCtx, a)
		if err != nil {
			return fmt.Errorf("save appointment: %w", err)
		}
		saved = out
		created = ins

		s.logEvent(lockCtx, out.ID, EventRescheduled, map[string]any{
			"date":     out.Date,
			"slot":     out.Time,
			"inserted": ins,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, false, ErrSlotBeingBooked
		}
		return nil, false, err
	}

	return saved, created, nil
}

// Transition applies a lifecycle action to the identified appointment.
// Actions outside the transition table fail with ErrInvalidTransition and
// leave the appointment untouched.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, action Action) (*Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := Next(appt.Status, action)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.SetStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", action, err)
	}

	s.logEvent(ctx, updated.ID, EventStatusChanged, map[string]any{
		"action": action,
		"from":   appt.Status,
		"to":     updated.Status,
	})

	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// List returns the appointments on date that pass the criteria, in insertion
// order. An empty result is a normal outcome.
func (s *Service) List(ctx context.Context, date string, crit Criteria) ([]Appointment, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, date)
	}

	appts, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return crit.Apply(date, appts), nil
}

// FreeSlots returns the catalog slots still bookable on date.
func (s *Service) FreeSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, date)
	}

	appts, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return FreeSlots(date, appts), nil
}

func slotKey(date, slot string) string {
	return date + ":" + slot
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.store.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
