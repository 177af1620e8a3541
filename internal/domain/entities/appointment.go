package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusRequested AppointmentStatus = "requested"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled appointment with a professional
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	PatientID       string            `json:"patient_id" db:"patient_id"`
	ProfessionalID  string            `json:"professional_id" db:"professional_id"`
	ClinicID        *string           `json:"clinic_id,omitempty" db:"clinic_id"`
	ProcedureID     *string           `json:"procedure_id,omitempty" db:"procedure_id"`
	ScheduledAt     time.Time         `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes int               `json:"duration_minutes" db:"duration_minutes"`
	Status          AppointmentStatus `json:"status" db:"status"`
	PatientName     string            `json:"patient_name" db:"patient_name"`
	PatientPhone    string            `json:"patient_phone" db:"patient_phone"`
	Notes           string            `json:"notes" db:"notes"`
	AgendaEventID   *string           `json:"agenda_event_id,omitempty" db:"agenda_event_id"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the appointment reached a final state.
// Completed and cancelled appointments can no longer be rescheduled or cancelled.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// CanModify reports whether reschedule/cancel transitions are still allowed.
func (a *Appointment) CanModify() bool {
	return a.Status == AppointmentStatusRequested || a.Status == AppointmentStatusConfirmed
}
