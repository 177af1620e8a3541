package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in one calendar day.
const MinutesPerDay = 1440

// Period represents a display grouping of slots within a day
type Period string

const (
	PeriodAll       Period = "all"
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// ParseClock parses an "HH:MM" string into a minute-of-day value.
func ParseClock(t string) (int, bool) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// FormatClock formats a minute-of-day value as "HH:MM". Values outside one
// day are normalized modulo 1440 first.
func FormatClock(minuteOfDay int) string {
	m := ((minuteOfDay % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes adds a minute delta to an "HH:MM" time, wrapping around midnight.
// Unparseable input is treated as "00:00"; the operation is total and never fails.
func AddMinutes(t string, minutes int) string {
	base, _ := ParseClock(t)
	return FormatClock(base + minutes)
}

// WrapsPastMidnight reports whether adding the delta to the start time crosses
// into the following day. The formatted result itself carries no day marker.
func WrapsPastMidnight(start string, minutes int) bool {
	base, ok := ParseClock(start)
	if !ok {
		return false
	}
	end := base + minutes
	return end >= MinutesPerDay || end < 0
}

// PeriodOf returns the display period of an "HH:MM" time: morning before
// noon, afternoon from noon onward.
func PeriodOf(t string) Period {
	m, ok := ParseClock(t)
	if !ok {
		return PeriodAll
	}
	if m < 12*60 {
		return PeriodMorning
	}
	return PeriodAfternoon
}
