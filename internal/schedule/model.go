package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusUrgent     Status = "Urgent"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusUrgent,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if s == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type AppointmentType string

const (
	TypeConsultation    AppointmentType = "Consultation"
	TypeFollowUp        AppointmentType = "Follow-up"
	TypeEmergency       AppointmentType = "Emergency"
	TypeRoutineCheckup  AppointmentType = "Routine Checkup"
	TypeSpecialistVisit AppointmentType = "Specialist Visit"
)

var allTypes = []AppointmentType{
	TypeConsultation,
	TypeFollowUp,
	TypeEmergency,
	TypeRoutineCheckup,
	TypeSpecialistVisit,
}

func ParseType(s string) (AppointmentType, error) {
	for _, t := range allTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown appointment type %q", ErrValidation, s)
}

// DateLayout is the wire and storage format for appointment dates.
// Dates carry no time component; the slot label carries the time of day.
const DateLayout = "2006-01-02"

var validDurations = []int{15, 30, 45, 60}

type Appointment struct {
	ID           uuid.UUID
	PatientName  string
	PatientPhone string
	Date         string // DateLayout
	Time         string // member of the slot catalog
	Duration     int    // minutes
	Type         AppointmentType
	Status       Status
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the field invariants that hold for every stored appointment.
func (a *Appointment) Validate() error {
	if a.PatientName == "" {
		return fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, a.Date)
	}
	if !IsSlot(a.Time) {
		return fmt.Errorf("%w: %q is not a bookable time slot", ErrValidation, a.Time)
	}
	validDur := false
	for _, d := range validDurations {
		if a.Duration == d {
			validDur = true
			break
		}
	}
	if !validDur {
		return fmt.Errorf("%w: duration must be one of 15, 30, 45 or 60 minutes", ErrValidation)
	}
	if _, err := ParseType(string(a.Type)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}
