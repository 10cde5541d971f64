package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists appointments in Postgres. It implements the same contract
// as MemoryStore; insertion order is the created_at/id order of the rows.
type PgStore struct {
	notifier
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const appointmentColumns = `id, patient_name, patient_phone, date, slot, duration_minutes, type, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.PatientName,
		&a.PatientPhone,
		&date,
		&a.Time,
		&a.Duration,
		&a.Type,
		&a.Status,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Date = date.Format(DateLayout)
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

func (s *PgStore) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_name, patient_phone, date, slot, duration_minutes, type, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, a.PatientName, a.PatientPhone, a.Date, a.Time, a.Duration, a.Type, a.Status, nullableString(a.Notes))

	created, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.notify()
	return created, nil
}

func (s *PgStore) Put(ctx context.Context, a Appointment) (*Appointment, bool, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE appointments
		SET patient_name = $2,
		    patient_phone = $3,
		    date = $4,
		    slot = $5,
		    duration_minutes = $6,
		    type = $7,
		    status = $8,
		    notes = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, a.ID, a.PatientName, a.PatientPhone, a.Date, a.Time, a.Duration, a.Type, a.Status, nullableString(a.Notes))

	updated, err := scanAppointment(row)
	if err == nil {
		s.notify()
		return updated, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("update appointment: %w", err)
	}

	// Unknown id inserts: Put is an upsert.
	created, err := s.Create(ctx, a)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *PgStore) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status)

	updated, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set appointment status: %w", err)
	}

	s.notify()
	return updated, nil
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (s *PgStore) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		ORDER BY created_at, id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PgStore) FindActiveBySlot(ctx context.Context, date, slot string) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		  AND slot = $2
		  AND status <> $3
		LIMIT 1
	`, date, slot, StatusCancelled)
	return scanAppointment(row)
}

func (s *PgStore) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
