package handlers

import (
	"net/http"
	"time"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

// AvailabilityHandler serves slot availability and its calendar projection
type AvailabilityHandler struct {
	availability   *services.AvailabilityService
	horizonDays    int
	maxMonthsAhead int
	now            func() time.Time
}

// NewAvailabilityHandler creates a new availability handler. horizonDays is
// the default fetch window; maxMonthsAhead bounds forward calendar navigation.
func NewAvailabilityHandler(availability *services.AvailabilityService, horizonDays, maxMonthsAhead int) *AvailabilityHandler {
	if horizonDays <= 0 {
		horizonDays = providers.MaxAvailabilityDays
	}
	if maxMonthsAhead <= 0 {
		maxMonthsAhead = scheduling.DefaultMaxMonthsAhead
	}
	return &AvailabilityHandler{
		availability:   availability,
		horizonDays:    horizonDays,
		maxMonthsAhead: maxMonthsAhead,
		now:            time.Now,
	}
}

// Fetch returns per-day slot availability for a professional.
// Windows wider than the provider cap are paginated server-side, so a
// single request may span up to the scheduling horizon.
// GET /api/professionals/{id}/availability?from=YYYY-MM-DD&days=N
func (h *AvailabilityHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	professionalID := r.PathValue("id")
	if professionalID == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	from := scheduling.DateOf(h.now())
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := scheduling.ParseDate(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
			return
		}
		from = parsed
	}

	days := queryInt(r, "days", h.horizonDays)

	window, err := h.availability.FetchWindow(r.Context(), professionalID, from, days)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"professional_id": professionalID,
		"from":            from.String(),
		"days":            window,
	})
}

// Calendar projects a month of availability onto the 42-cell grid.
// GET /api/professionals/{id}/calendar?year=2025&month=6
func (h *AvailabilityHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	professionalID := r.PathValue("id")
	if professionalID == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	today := scheduling.DateOf(h.now())
	year := queryInt(r, "year", today.Year)
	month := queryInt(r, "month", today.Month)
	if month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	if monthsAhead(today, year, month) > h.maxMonthsAhead {
		respondWithError(w, http.StatusBadRequest, "month is beyond the booking horizon")
		return
	}

	// Fetch only the future part of the month; past days render as
	// unavailable without costing a provider call.
	first := scheduling.Date{Year: year, Month: month, Day: 1}
	start := first
	if start.Before(today) {
		start = today
	}
	numDays := scheduling.DaysInMonth(year, month) - (start.Day - first.Day)

	var window []entities.AvailabilityDay
	if numDays > 0 && !monthEntirelyPast(year, month, today) {
		fetched, err := h.availability.FetchWindow(r.Context(), professionalID, start, numDays)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		window = fetched
	}

	cells := scheduling.BuildMonthGrid(year, month, window, today)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"professional_id": professionalID,
		"year":            year,
		"month":           month,
		"cells":           cells,
	})
}

// Slots returns one day's open slots grouped into display periods.
// GET /api/professionals/{id}/slots?date=YYYY-MM-DD
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	professionalID := r.PathValue("id")
	if professionalID == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	date, err := scheduling.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	window, err := h.availability.FetchWindow(r.Context(), professionalID, date, 1)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	morning := make([]entities.Slot, 0)
	afternoon := make([]entities.Slot, 0)
	for _, day := range window {
		if day.Date != date.String() {
			continue
		}
		for _, slot := range day.Slots {
			if !slot.Available {
				continue
			}
			if scheduling.PeriodOf(slot.Time) == scheduling.PeriodMorning {
				morning = append(morning, slot)
			} else {
				afternoon = append(afternoon, slot)
			}
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"professional_id": professionalID,
		"date":            date.String(),
		"morning":         morning,
		"afternoon":       afternoon,
	})
}

func monthEntirelyPast(year, month int, today scheduling.Date) bool {
	return year < today.Year || (year == today.Year && month < today.Month)
}

// monthsAhead counts whole months between today's month and the target month.
func monthsAhead(today scheduling.Date, year, month int) int {
	return (year-today.Year)*12 + month - today.Month
}
