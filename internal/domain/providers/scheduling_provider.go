package providers

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

// MaxAvailabilityDays is the largest window the backing agenda serves in a
// single call. Wider horizons are paginated by advancing the from date.
const MaxAvailabilityDays = 30

// SchedulingProvider defines the interface for the external agenda that owns
// the authoritative slot state (the backend is the source of truth; the
// engine re-validates only on submission).
type SchedulingProvider interface {
	// FetchAvailability returns per-day slot lists for a professional,
	// starting at from for numDays days (capped at MaxAvailabilityDays).
	FetchAvailability(ctx context.Context, professionalID string, from scheduling.Date, numDays int) ([]entities.AvailabilityDay, error)

	// CreateAppointment books the appointment on the external agenda and
	// returns its external event identifier.
	CreateAppointment(ctx context.Context, appointment *entities.Appointment) (externalID string, err error)

	// RescheduleAppointment moves an existing appointment to a new start.
	// Fails with a conflict error when the slot has since been taken or the
	// appointment is in a terminal state.
	RescheduleAppointment(ctx context.Context, externalID string, newStart string, reason string) error

	// CancelAppointment cancels an appointment. Cancelling an already
	// cancelled id is treated as success.
	CancelAppointment(ctx context.Context, externalID string, reason string) error
}
