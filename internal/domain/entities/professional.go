package entities

import (
	"time"
)

// Professional represents a healthcare professional who can be booked
type Professional struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Specialty        string    `json:"specialty" db:"specialty"`
	ClinicID         *string   `json:"clinic_id,omitempty" db:"clinic_id"`
	AgendaExternalID string    `json:"agenda_external_id" db:"agenda_external_id"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
