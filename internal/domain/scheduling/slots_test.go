package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

func newSelector() *scheduling.SlotSelector {
	return scheduling.NewSlotSelector(scheduling.Date{Year: 2025, Month: 6, Day: 1})
}

func TestSlotSelector_MorningFilter(t *testing.T) {
	s := newSelector()
	s.SetAvailability([]entities.AvailabilityDay{
		{Date: "2025-06-10", Slots: []entities.Slot{
			{Time: "09:00", Available: true},
			{Time: "09:30", Available: false},
		}},
	})

	s.SelectDate("2025-06-10")
	s.SetPeriod(scheduling.PeriodMorning)

	slots := s.AvailableSlots()
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestSlotSelector_PeriodFallback(t *testing.T) {
	s := newSelector()
	s.SetAvailability([]entities.AvailabilityDay{
		{Date: "2025-06-10", Slots: []entities.Slot{{Time: "14:00", Available: true}}},
		{Date: "2025-06-11", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
	})

	s.SelectDate("2025-06-10")
	s.SetPeriod(scheduling.PeriodAfternoon)
	require.Len(t, s.AvailableSlots(), 1)

	// The new date has nothing in the afternoon, so the filter resets.
	s.SelectDate("2025-06-11")
	assert.Equal(t, scheduling.PeriodAll, s.Period())
	assert.Len(t, s.AvailableSlots(), 1)
}

func TestSlotSelector_SelectSlot(t *testing.T) {
	availability := []entities.AvailabilityDay{
		{Date: "2025-06-10", Slots: []entities.Slot{
			{Time: "09:00", Available: true},
			{Time: "09:30", Available: false},
		}},
	}

	t.Run("selects an available slot", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability(availability)
		s.SelectDate("2025-06-10")

		require.NoError(t, s.SelectSlot("09:00"))
		require.NotNil(t, s.SelectedSlot())
		assert.Equal(t, "09:00", s.SelectedSlot().Time)
	})

	t.Run("rejects a slot not in the day", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability(availability)
		s.SelectDate("2025-06-10")

		assert.Error(t, s.SelectSlot("10:00"))
		assert.Nil(t, s.SelectedSlot())
	})

	t.Run("rejects an unavailable slot", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability(availability)
		s.SelectDate("2025-06-10")

		assert.Error(t, s.SelectSlot("09:30"))
		assert.Nil(t, s.SelectedSlot())
	})

	t.Run("rejects when no date is selected", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability(availability)

		assert.Error(t, s.SelectSlot("09:00"))
	})

	t.Run("rejects a past date", func(t *testing.T) {
		s := scheduling.NewSlotSelector(scheduling.Date{Year: 2025, Month: 6, Day: 20})
		s.SetAvailability(availability)
		s.SelectDate("2025-06-10")

		assert.Error(t, s.SelectSlot("09:00"))
		assert.Nil(t, s.SelectedSlot())
	})
}

func TestSlotSelector_RefetchReplacesList(t *testing.T) {
	s := newSelector()
	s.SetAvailability([]entities.AvailabilityDay{
		{Date: "2025-06-10", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
	})
	s.SelectDate("2025-06-10")
	require.NoError(t, s.SelectSlot("09:00"))

	t.Run("keeps selection when the slot survives", func(t *testing.T) {
		s.SetAvailability([]entities.AvailabilityDay{
			{Date: "2025-06-10", Slots: []entities.Slot{
				{Time: "09:00", Available: true},
				{Time: "10:00", Available: true},
			}},
		})
		assert.NotNil(t, s.SelectedSlot())
	})

	t.Run("clears selection when the slot is gone", func(t *testing.T) {
		s.SetAvailability([]entities.AvailabilityDay{
			{Date: "2025-06-10", Slots: []entities.Slot{{Time: "10:00", Available: true}}},
		})
		assert.Nil(t, s.SelectedSlot())
	})
}

func TestSlotSelector_FirstAvailableDate(t *testing.T) {
	t.Run("prefers the first day with an open slot", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability([]entities.AvailabilityDay{
			{Date: "2025-06-10", Slots: []entities.Slot{{Time: "09:00", Available: false}}},
			{Date: "2025-06-11", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
		})
		assert.Equal(t, "2025-06-11", s.FirstAvailableDate())
	})

	t.Run("falls back to the first day returned", func(t *testing.T) {
		s := newSelector()
		s.SetAvailability([]entities.AvailabilityDay{
			{Date: "2025-06-10", Slots: []entities.Slot{{Time: "09:00", Available: false}}},
			{Date: "2025-06-11", Slots: nil},
		})
		assert.Equal(t, "2025-06-10", s.FirstAvailableDate())
	})

	t.Run("empty availability yields empty date", func(t *testing.T) {
		assert.Equal(t, "", newSelector().FirstAvailableDate())
	})
}
