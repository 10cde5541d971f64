package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medicore/appointment-scheduling/internal/schedule"
)

type AppointmentRequest struct {
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Duration     int    `json:"duration"`
	Type         string `json:"type"`
	Status       string `json:"status,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Duration     int       `json:"duration"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientName:  a.PatientName,
		PatientPhone: a.PatientPhone,
		Date:         a.Date,
		Time:         a.Time,
		Duration:     a.Duration,
		Type:         string(a.Type),
		Status:       string(a.Status),
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type AppointmentListResponse struct {
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

type FreeSlotsResponse struct {
	Date      string   `json:"date"`
	FreeSlots []string `json:"free_slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
