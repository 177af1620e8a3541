package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	domsched "github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

// MockAdapter provides deterministic availability for local development.
// Weekdays get half-hour slots from 09:00 to 17:00; weekends are closed.
// Every fourth slot is marked taken so calendars show mixed days.
type MockAdapter struct {
	dayStart     string
	dayEnd       string
	slotMinutes  int
	takenModulus int
}

// NewMockAdapter creates a mock scheduling provider.
func NewMockAdapter() providers.SchedulingProvider {
	return &MockAdapter{
		dayStart:     "09:00",
		dayEnd:       "17:00",
		slotMinutes:  30,
		takenModulus: 4,
	}
}

// FetchAvailability returns generated per-day slot lists.
func (m *MockAdapter) FetchAvailability(ctx context.Context, professionalID string, from domsched.Date, numDays int) ([]entities.AvailabilityDay, error) {
	if numDays > providers.MaxAvailabilityDays {
		numDays = providers.MaxAvailabilityDays
	}

	days := make([]entities.AvailabilityDay, 0, numDays)
	for i := 0; i < numDays; i++ {
		date := from.AddDays(i)
		day := entities.AvailabilityDay{Date: date.String()}

		weekday := date.Weekday()
		if weekday != 0 && weekday != 6 {
			day.Slots = m.generateSlots()
		}

		days = append(days, day)
	}

	return days, nil
}

func (m *MockAdapter) generateSlots() []entities.Slot {
	start, _ := domsched.ParseClock(m.dayStart)
	end, _ := domsched.ParseClock(m.dayEnd)

	var slots []entities.Slot
	for i, cursor := 0, start; cursor < end; i, cursor = i+1, cursor+m.slotMinutes {
		slots = append(slots, entities.Slot{
			Time:      domsched.FormatClock(cursor),
			Available: i%m.takenModulus != m.takenModulus-1,
		})
	}
	return slots
}

// CreateAppointment returns a mock booking reference.
func (m *MockAdapter) CreateAppointment(ctx context.Context, appointment *entities.Appointment) (string, error) {
	return fmt.Sprintf("mock-%d", time.Now().UnixNano()), nil
}

// RescheduleAppointment is a no-op for the mock provider.
func (m *MockAdapter) RescheduleAppointment(ctx context.Context, externalID string, newStart string, reason string) error {
	return nil
}

// CancelAppointment is a no-op for the mock provider.
func (m *MockAdapter) CancelAppointment(ctx context.Context, externalID string, reason string) error {
	return nil
}
