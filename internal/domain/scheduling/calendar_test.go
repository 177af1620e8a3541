package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

func TestBuildMonthGrid_AlwaysFortyTwoCells(t *testing.T) {
	today := scheduling.Date{Year: 2025, Month: 1, Day: 1}
	for year := 2024; year <= 2026; year++ {
		for month := 1; month <= 12; month++ {
			cells := scheduling.BuildMonthGrid(year, month, nil, today)
			require.Len(t, cells, scheduling.GridCells, "%04d-%02d", year, month)

			current := 0
			for _, c := range cells {
				if c.IsCurrentMonth {
					current++
				}
			}
			assert.Equal(t, scheduling.DaysInMonth(year, month), current, "%04d-%02d", year, month)
		}
	}
}

func TestBuildMonthGrid_PadsWithAdjacentMonths(t *testing.T) {
	// June 2025 starts on a Sunday: no leading pad, 12 trailing cells.
	today := scheduling.Date{Year: 2025, Month: 6, Day: 10}
	cells := scheduling.BuildMonthGrid(2025, 6, nil, today)

	assert.Equal(t, "2025-06-01", cells[0].Date)
	assert.True(t, cells[0].IsCurrentMonth)
	assert.Equal(t, "2025-07-12", cells[41].Date)
	assert.False(t, cells[41].IsCurrentMonth)

	// August 2025 starts on a Friday: five leading cells from July.
	cells = scheduling.BuildMonthGrid(2025, 8, nil, today)
	assert.Equal(t, "2025-07-27", cells[0].Date)
	assert.False(t, cells[0].IsCurrentMonth)
	assert.Equal(t, "2025-08-01", cells[5].Date)
	assert.True(t, cells[5].IsCurrentMonth)
}

func TestBuildMonthGrid_Flags(t *testing.T) {
	today := scheduling.Date{Year: 2025, Month: 6, Day: 10}
	availability := []entities.AvailabilityDay{
		{Date: "2025-06-09", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
		{Date: "2025-06-11", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
		{Date: "2025-06-12", Slots: []entities.Slot{{Time: "09:00", Available: false}}},
		{Date: "2025-07-01", Slots: []entities.Slot{{Time: "09:00", Available: true}}},
	}
	cells := scheduling.BuildMonthGrid(2025, 6, availability, today)

	byDate := make(map[string]scheduling.CalendarCell)
	for _, c := range cells {
		byDate[c.Date] = c
	}

	assert.True(t, byDate["2025-06-10"].IsToday)
	assert.False(t, byDate["2025-06-10"].IsPast)
	assert.True(t, byDate["2025-06-09"].IsPast)

	// Past days are never clickable even with availability.
	assert.True(t, byDate["2025-06-09"].HasAvailableSlots)
	assert.False(t, byDate["2025-06-09"].Clickable)

	assert.True(t, byDate["2025-06-11"].Clickable)

	// A day whose slots are all taken has no availability.
	assert.False(t, byDate["2025-06-12"].HasAvailableSlots)
	assert.False(t, byDate["2025-06-12"].Clickable)

	// Cells outside the current month are never clickable.
	assert.True(t, byDate["2025-07-01"].HasAvailableSlots)
	assert.False(t, byDate["2025-07-01"].Clickable)
}

func TestMonthView_NavigationBounds(t *testing.T) {
	today := scheduling.Date{Year: 2025, Month: 6, Day: 10}

	t.Run("previous from current month is a no-op", func(t *testing.T) {
		view := scheduling.NewMonthView(today)
		view.GoToPreviousMonth()
		assert.Equal(t, 2025, view.Year())
		assert.Equal(t, 6, view.Month())
	})

	t.Run("forward navigation clamps at two months ahead", func(t *testing.T) {
		view := scheduling.NewMonthView(today)
		view.GoToNextMonth()
		view.GoToNextMonth()
		assert.Equal(t, 8, view.Month())

		// Third request is silently ignored.
		view.GoToNextMonth()
		assert.Equal(t, 8, view.Month())
	})

	t.Run("can navigate back after going forward", func(t *testing.T) {
		view := scheduling.NewMonthView(today)
		view.GoToNextMonth()
		view.GoToPreviousMonth()
		assert.Equal(t, 6, view.Month())
	})

	t.Run("bounds roll over the year", func(t *testing.T) {
		view := scheduling.NewMonthView(scheduling.Date{Year: 2025, Month: 12, Day: 5})
		view.GoToNextMonth()
		assert.Equal(t, 2026, view.Year())
		assert.Equal(t, 1, view.Month())
		view.GoToNextMonth()
		assert.Equal(t, 2, view.Month())
		view.GoToNextMonth()
		assert.Equal(t, 2, view.Month())
	})
}
