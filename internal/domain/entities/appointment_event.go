package entities

import (
	"time"
)

// AppointmentEventType represents the type of appointment lifecycle event
type AppointmentEventType string

const (
	AppointmentEventCreated     AppointmentEventType = "appointment.created"
	AppointmentEventRescheduled AppointmentEventType = "appointment.rescheduled"
	AppointmentEventCancelled   AppointmentEventType = "appointment.cancelled"
)

// AppointmentEvent represents an appointment lifecycle event published on the event bus
type AppointmentEvent struct {
	ID             string               `json:"id"`
	Type           AppointmentEventType `json:"type"`
	AppointmentID  string               `json:"appointment_id"`
	ProfessionalID string               `json:"professional_id"`
	PatientID      string               `json:"patient_id"`
	ScheduledAt    time.Time            `json:"scheduled_at"`
	Reason         string               `json:"reason,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}
