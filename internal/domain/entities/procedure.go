package entities

import (
	"time"
)

// Procedure represents a bookable medical procedure/service offered by a professional
type Procedure struct {
	ID              string    `json:"id" db:"id"`
	ProfessionalID  string    `json:"professional_id" db:"professional_id"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Price           float64   `json:"price" db:"price"`
	Color           string    `json:"color" db:"color"`
	BufferMinutes   int       `json:"buffer_minutes" db:"buffer_minutes"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// BlockedMinutes returns the total agenda time a booking occupies on the
// professional's side: the procedure itself plus the buffer that keeps
// back-to-back bookings apart. The buffer never extends the appointment's
// own recorded duration.
func (p *Procedure) BlockedMinutes() int {
	return p.DurationMinutes + p.BufferMinutes
}
