package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/appointment-scheduling/internal/schedule"
)

func createAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Book(r.Context(), schedule.BookRequest{
			PatientName:  req.PatientName,
			PatientPhone: req.PatientPhone,
			Date:         req.Date,
			Time:         req.Time,
			Duration:     req.Duration,
			Type:         schedule.AppointmentType(req.Type),
			Status:       schedule.Status(req.Status),
			Notes:        req.Notes,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func upsertAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, created, err := svc.Reschedule(r.Context(), schedule.Appointment{
			ID:           id,
			PatientName:  req.PatientName,
			PatientPhone: req.PatientPhone,
			Date:         req.Date,
			Time:         req.Time,
			Duration:     req.Duration,
			Type:         schedule.AppointmentType(req.Type),
			Status:       schedule.Status(req.Status),
			Notes:        req.Notes,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

// listAppointmentsHandler serves the filtered day view. Query parameters:
// date (defaults to today), repeatable status and type, and time_range.
func listAppointmentsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		date := q.Get("date")
		if date == "" {
			date = time.Now().Format(schedule.DateLayout)
		}

		var crit schedule.Criteria
		for _, s := range q["status"] {
			st, err := schedule.ParseStatus(s)
			if err != nil {
				handleScheduleError(w, err)
				return
			}
			crit.Status = append(crit.Status, st)
		}
		for _, t := range q["type"] {
			ty, err := schedule.ParseType(t)
			if err != nil {
				handleScheduleError(w, err)
				return
			}
			crit.Type = append(crit.Type, ty)
		}

		tr, err := schedule.ParseTimeRange(q.Get("time_range"))
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		crit.TimeRange = tr

		appts, err := svc.List(r.Context(), date, crit)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := AppointmentListResponse{
			Date:         date,
			Appointments: make([]AppointmentResponse, 0, len(appts)),
			Count:        len(appts),
		}
		for i := range appts {
			resp.Appointments = append(resp.Appointments, toAppointmentResponse(&appts[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// transitionHandler builds the handler for a single lifecycle action, so each
// action gets its own route like the buttons in the scheduling console.
func transitionHandler(svc *schedule.Service, action schedule.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Transition(r.Context(), id, action)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func freeSlotsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format(schedule.DateLayout)
		}

		slots, err := svc.FreeSlots(r.Context(), date)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, FreeSlotsResponse{Date: date, FreeSlots: slots})
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, schedule.ErrInvalidInitialState):
		writeError(w, http.StatusBadRequest, "invalid_initial_status", err.Error())
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, schedule.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, schedule.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
