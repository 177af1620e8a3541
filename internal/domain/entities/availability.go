package entities

// Slot represents a single bookable start time within a day.
// Slots are atomic: the engine never splits or merges them.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// AvailabilityDay represents one calendar day's worth of slots for one professional.
// Date is a canonical YYYY-MM-DD string, never a timezone-bearing timestamp.
type AvailabilityDay struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// HasAvailableSlots reports whether any slot of the day is still open.
func (d AvailabilityDay) HasAvailableSlots() bool {
	for _, s := range d.Slots {
		if s.Available {
			return true
		}
	}
	return false
}

// FindSlot returns the slot with the given start time, if present.
func (d AvailabilityDay) FindSlot(t string) (Slot, bool) {
	for _, s := range d.Slots {
		if s.Time == t {
			return s, true
		}
	}
	return Slot{}, false
}
