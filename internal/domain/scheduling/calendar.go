package scheduling

import (
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

// GridCells is the fixed size of the month grid: 6 weeks of 7 days,
// padded with adjacent-month days.
const GridCells = 42

// DefaultMaxMonthsAhead bounds forward calendar navigation relative to the
// month containing today.
const DefaultMaxMonthsAhead = 2

// CalendarCell is one cell of the 6x7 month grid. It is a projection built
// fresh on every render, never persisted.
type CalendarCell struct {
	Date              string `json:"date"`
	Day               int    `json:"day"`
	IsCurrentMonth    bool   `json:"is_current_month"`
	HasAvailableSlots bool   `json:"has_available_slots"`
	IsToday           bool   `json:"is_today"`
	IsPast            bool   `json:"is_past"`
	Clickable         bool   `json:"clickable"`
}

// BuildMonthGrid projects a sparse availability list onto the 42-cell grid
// for the given month. Cells outside the target month are never clickable,
// regardless of availability.
func BuildMonthGrid(year, month int, availability []entities.AvailabilityDay, today Date) []CalendarCell {
	byDate := make(map[string]entities.AvailabilityDay, len(availability))
	for _, day := range availability {
		byDate[day.Date] = day
	}

	todayStr := today.String()
	cells := make([]CalendarCell, 0, GridCells)

	appendCell := func(y, m, day int, current bool) {
		date := Date{Year: y, Month: m, Day: day}.String()
		cell := CalendarCell{
			Date:           date,
			Day:            day,
			IsCurrentMonth: current,
			IsToday:        date == todayStr,
			IsPast:         date < todayStr,
		}
		if day, ok := byDate[date]; ok {
			cell.HasAvailableSlots = day.HasAvailableSlots()
		}
		cell.Clickable = current && !cell.IsPast && cell.HasAvailableSlots
		cells = append(cells, cell)
	}

	first := Date{Year: year, Month: month, Day: 1}
	leading := first.Weekday()

	prevYear, prevMonth := PreviousMonth(year, month)
	prevDays := DaysInMonth(prevYear, prevMonth)
	for i := 0; i < leading; i++ {
		appendCell(prevYear, prevMonth, prevDays-leading+1+i, false)
	}

	days := DaysInMonth(year, month)
	for day := 1; day <= days; day++ {
		appendCell(year, month, day, true)
	}

	nextYear, nextMonth := NextMonth(year, month)
	for day := 1; len(cells) < GridCells; day++ {
		appendCell(nextYear, nextMonth, day, false)
	}

	return cells
}

// MonthView holds the month currently shown by an availability calendar and
// clamps navigation: never before the month containing today, never more
// than maxMonthsAhead past it. Out-of-bounds navigation requests are
// silently ignored.
type MonthView struct {
	year           int
	month          int
	today          Date
	maxMonthsAhead int
}

// NewMonthView creates a view positioned on the month containing today.
func NewMonthView(today Date) *MonthView {
	return &MonthView{
		year:           today.Year,
		month:          today.Month,
		today:          today,
		maxMonthsAhead: DefaultMaxMonthsAhead,
	}
}

// NewMonthViewWithHorizon creates a view with a custom forward bound.
func NewMonthViewWithHorizon(today Date, maxMonthsAhead int) *MonthView {
	v := NewMonthView(today)
	if maxMonthsAhead >= 0 {
		v.maxMonthsAhead = maxMonthsAhead
	}
	return v
}

// Year returns the viewed year.
func (v *MonthView) Year() int { return v.year }

// Month returns the viewed month.
func (v *MonthView) Month() int { return v.month }

// monthIndex linearizes (year, month) so bounds compare as plain ints.
func monthIndex(year, month int) int {
	return year*12 + month - 1
}

// GoToPreviousMonth moves the view one month back, unless that would leave
// the allowed window.
func (v *MonthView) GoToPreviousMonth() {
	year, month := PreviousMonth(v.year, v.month)
	if monthIndex(year, month) < monthIndex(v.today.Year, v.today.Month) {
		return
	}
	v.year, v.month = year, month
}

// GoToNextMonth moves the view one month forward, unless that would leave
// the allowed window.
func (v *MonthView) GoToNextMonth() {
	year, month := NextMonth(v.year, v.month)
	if monthIndex(year, month) > monthIndex(v.today.Year, v.today.Month)+v.maxMonthsAhead {
		return
	}
	v.year, v.month = year, month
}

// Cells builds the grid for the viewed month.
func (v *MonthView) Cells(availability []entities.AvailabilityDay) []CalendarCell {
	return BuildMonthGrid(v.year, v.month, availability, v.today)
}
