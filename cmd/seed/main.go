package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/appointment-scheduling/internal/db"
	"github.com/medicore/appointment-scheduling/internal/schedule"
)

const ddl = `
CREATE TABLE IF NOT EXISTS appointments (
	id               uuid PRIMARY KEY,
	patient_name     text NOT NULL,
	patient_phone    text NOT NULL DEFAULT '',
	date             date NOT NULL,
	slot             text NOT NULL,
	duration_minutes int  NOT NULL,
	type             text NOT NULL,
	status           text NOT NULL,
	notes            text,
	created_at       timestamptz NOT NULL DEFAULT now(),
	updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS appointments_date_idx ON appointments (date);
CREATE INDEX IF NOT EXISTS appointments_date_slot_idx ON appointments (date, slot);

CREATE TABLE IF NOT EXISTS event_logs (
	id             bigserial PRIMARY KEY,
	event_type     text NOT NULL,
	appointment_id uuid,
	payload        jsonb,
	created_at     timestamptz NOT NULL DEFAULT now()
);
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(context.Background(), ddl); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema ready")

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), pool, 7, 12); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments books up to perDay random slots on each of the next days
// days. Each slot is used at most once per day, so the seeded data respects
// the single-booking policy.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, days, perDay int) error {
	store := schedule.NewPgStore(pool)

	types := []schedule.AppointmentType{
		schedule.TypeConsultation,
		schedule.TypeFollowUp,
		schedule.TypeEmergency,
		schedule.TypeRoutineCheckup,
		schedule.TypeSpecialistVisit,
	}
	statuses := []schedule.Status{
		schedule.StatusPending,
		schedule.StatusPending,
		schedule.StatusConfirmed,
		schedule.StatusConfirmed,
		schedule.StatusUrgent,
		schedule.StatusCancelled,
	}
	durations := []int{15, 30, 45, 60}

	total := 0
	for d := 0; d < days; d++ {
		date := time.Now().AddDate(0, 0, d).Format(schedule.DateLayout)

		slots := schedule.Slots()
		gofakeit.ShuffleStrings(slots)
		if perDay < len(slots) {
			slots = slots[:perDay]
		}

		for _, slot := range slots {
			appt := schedule.Appointment{
				ID:           uuid.New(),
				PatientName:  gofakeit.Name(),
				PatientPhone: gofakeit.Phone(),
				Date:         date,
				Time:         slot,
				Duration:     durations[gofakeit.Number(0, len(durations)-1)],
				Type:         types[gofakeit.Number(0, len(types)-1)],
				Status:       statuses[gofakeit.Number(0, len(statuses)-1)],
				Notes:        gofakeit.Sentence(6),
			}

			if _, err := store.Create(ctx, appt); err != nil {
				return err
			}
			total++
		}

		log.Printf("seeded %s: %d appointments", date, len(slots))
	}

	log.Printf("appointments seeded: %d", total)
	return nil
}
