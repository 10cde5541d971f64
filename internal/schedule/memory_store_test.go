package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newAppt(date, slot string) Appointment {
	now := time.Now()
	return Appointment{
		ID:           uuid.New(),
		PatientName:  "Test Patient",
		PatientPhone: "+1-555-0100",
		Date:         date,
		Time:         slot,
		Duration:     30,
		Type:         TypeConsultation,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newAppt("2024-01-01", "09:00 AM")
	created, err := store.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PatientName != "Test Patient" || got.Status != StatusPending {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := store.Create(ctx, a); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate id: expected validation error, got %v", err)
	}
}

func TestMemoryStore_PutUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newAppt("2024-01-01", "09:00 AM")
	if _, err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Update on an existing id replaces in place.
	a.Notes = "rescheduled"
	a.Time = "10:00 AM"
	updated, created, err := store.Put(ctx, a)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if created {
		t.Fatal("Put on existing id reported an insert")
	}
	if updated.Notes != "rescheduled" || updated.Time != "10:00 AM" {
		t.Fatalf("patch not applied: %+v", updated)
	}

	day, err := store.ListByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("Put on existing id changed collection size: %d", len(day))
	}

	// Unknown id inserts.
	b := newAppt("2024-01-01", "11:00 AM")
	_, created, err = store.Put(ctx, b)
	if err != nil {
		t.Fatalf("Put insert: %v", err)
	}
	if !created {
		t.Fatal("Put with unknown id should insert")
	}

	day, _ = store.ListByDate(ctx, "2024-01-01")
	if len(day) != 2 {
		t.Fatalf("expected 2 after upsert insert, got %d", len(day))
	}
}

func TestMemoryStore_SetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newAppt("2024-01-01", "09:00 AM")
	created, _ := store.Create(ctx, a)

	updated, err := store.SetStatus(ctx, created.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", updated.Status)
	}
	if updated.PatientName != a.PatientName || updated.Time != a.Time {
		t.Fatal("SetStatus touched fields other than status")
	}

	if _, err := store.SetStatus(ctx, uuid.New(), StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListByDateInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	slots := []string{"02:00 PM", "08:00 AM", "11:30 AM"}
	for _, s := range slots {
		if _, err := store.Create(ctx, newAppt("2024-01-01", s)); err != nil {
			t.Fatalf("Create %s: %v", s, err)
		}
	}
	if _, err := store.Create(ctx, newAppt("2024-01-02", "09:00 AM")); err != nil {
		t.Fatalf("Create other day: %v", err)
	}

	day, err := store.ListByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(day) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(day))
	}
	for i, s := range slots {
		if day[i].Time != s {
			t.Fatalf("position %d: got %s, want %s (insertion order)", i, day[i].Time, s)
		}
	}
}

func TestMemoryStore_FindActiveBySlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newAppt("2024-01-01", "09:00 AM")
	created, _ := store.Create(ctx, a)

	holder, err := store.FindActiveBySlot(ctx, "2024-01-01", "09:00 AM")
	if err != nil {
		t.Fatalf("FindActiveBySlot: %v", err)
	}
	if holder.ID != created.ID {
		t.Fatalf("wrong holder: %s", holder.ID)
	}

	if _, err := store.FindActiveBySlot(ctx, "2024-01-01", "10:00 AM"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("free slot: expected ErrNotFound, got %v", err)
	}

	// Cancelling releases the slot.
	if _, err := store.SetStatus(ctx, created.ID, StatusCancelled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := store.FindActiveBySlot(ctx, "2024-01-01", "09:00 AM"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancelled slot: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_NotifiesObservers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var calls int
	store.Subscribe(func() { calls++ })

	a := newAppt("2024-01-01", "09:00 AM")
	created, _ := store.Create(ctx, a)
	_, _, _ = store.Put(ctx, *created)
	_, _ = store.SetStatus(ctx, created.ID, StatusConfirmed)

	if calls != 3 {
		t.Fatalf("expected 3 observer notifications, got %d", calls)
	}
}

func TestMemoryStore_Events(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id := uuid.New()
	for _, et := range []string{EventBooked, EventStatusChanged} {
		if err := store.InsertEvent(ctx, EventLog{EventType: et, AppointmentID: &id}); err != nil {
			t.Fatalf("InsertEvent: %v", err)
		}
	}

	events := store.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != EventBooked || events[0].ID != 1 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].CreatedAt.IsZero() {
		t.Fatal("event created_at not defaulted")
	}
}
