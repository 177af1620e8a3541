package scheduling

import (
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// SlotSelector filters and tracks slot choices for one booking or reschedule
// session. It is a read-only planning aid over the fetched availability:
// slots are never mutated, only selected.
type SlotSelector struct {
	today        Date
	days         []entities.AvailabilityDay
	byDate       map[string]entities.AvailabilityDay
	selectedDate string
	selectedSlot *entities.Slot
	period       Period
}

// NewSlotSelector creates a selector; today bounds which dates are selectable.
func NewSlotSelector(today Date) *SlotSelector {
	return &SlotSelector{
		today:  today,
		byDate: make(map[string]entities.AvailabilityDay),
		period: PeriodAll,
	}
}

// SetAvailability replaces the slot list wholesale, as happens after every
// re-fetch. The current selection is cleared if the previously selected slot
// no longer exists in the new list.
func (s *SlotSelector) SetAvailability(days []entities.AvailabilityDay) {
	s.days = days
	s.byDate = make(map[string]entities.AvailabilityDay, len(days))
	for _, day := range days {
		s.byDate[day.Date] = day
	}

	if s.selectedSlot == nil {
		return
	}
	if day, ok := s.byDate[s.selectedDate]; ok {
		if slot, found := day.FindSlot(s.selectedSlot.Time); found && slot.Available {
			return
		}
	}
	s.selectedSlot = nil
}

// SelectDate makes the given date the active one. A pending slot selection
// is dropped, and the period sub-filter falls back to "all" when the new
// date has nothing in the previously chosen period.
func (s *SlotSelector) SelectDate(date string) {
	if date == s.selectedDate {
		return
	}
	s.selectedDate = date
	s.selectedSlot = nil
	if s.period != PeriodAll && len(s.AvailableSlots()) == 0 {
		s.period = PeriodAll
	}
}

// SetPeriod applies the morning/afternoon sub-filter.
func (s *SlotSelector) SetPeriod(p Period) {
	switch p {
	case PeriodAll, PeriodMorning, PeriodAfternoon:
		s.period = p
	}
}

// Period returns the active sub-filter.
func (s *SlotSelector) Period() Period { return s.period }

// AvailableSlots returns the selectable slots of the active date: available
// ones only, narrowed by the period sub-filter.
func (s *SlotSelector) AvailableSlots() []entities.Slot {
	day, ok := s.byDate[s.selectedDate]
	if !ok {
		return nil
	}
	slots := make([]entities.Slot, 0, len(day.Slots))
	for _, slot := range day.Slots {
		if !slot.Available {
			continue
		}
		if s.period != PeriodAll && PeriodOf(slot.Time) != s.period {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// SelectSlot stores the chosen slot. The selection is rejected, leaving
// state untouched, when no date is active, the date is already past, or the
// slot is absent or unavailable in the active date.
func (s *SlotSelector) SelectSlot(t string) error {
	if s.selectedDate == "" {
		return apperrors.NewValidationError("no date selected")
	}
	if s.selectedDate < s.today.String() {
		return apperrors.NewValidationError("cannot select a slot on a past date")
	}
	day, ok := s.byDate[s.selectedDate]
	if !ok {
		return apperrors.NewValidationError("selected date has no availability")
	}
	slot, found := day.FindSlot(t)
	if !found || !slot.Available {
		return apperrors.NewValidationError("slot is not available")
	}
	s.selectedSlot = &slot
	return nil
}

// Days returns the availability list the selector currently holds.
func (s *SlotSelector) Days() []entities.AvailabilityDay { return s.days }

// SelectedDate returns the active date, or "" when none is selected.
func (s *SlotSelector) SelectedDate() string { return s.selectedDate }

// SelectedSlot returns the chosen slot, or nil when none is selected.
func (s *SlotSelector) SelectedSlot() *entities.Slot { return s.selectedSlot }

// ClearSelection drops the active date, slot and period sub-filter.
func (s *SlotSelector) ClearSelection() {
	s.selectedDate = ""
	s.selectedSlot = nil
	s.period = PeriodAll
}

// FirstAvailableDate returns the first day with any open slot, falling back
// to the first day returned so callers never start from an empty view.
func (s *SlotSelector) FirstAvailableDate() string {
	for _, day := range s.days {
		if day.HasAvailableSlots() {
			return day.Date
		}
	}
	if len(s.days) > 0 {
		return s.days[0].Date
	}
	return ""
}
