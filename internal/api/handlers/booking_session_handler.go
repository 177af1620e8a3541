package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
)

// sessionIdleTimeout is how long an untouched booking session survives.
// Abandoned wizards are pruned lazily on the next session creation.
const sessionIdleTimeout = 30 * time.Minute

type bookingSession struct {
	wizard    *services.BookingWizard
	userID    string
	touchedAt time.Time
	mu        sync.Mutex
}

// BookingSessionHandler hosts server-side booking wizard instances keyed by
// session ID. Each wizard belongs to one user and is serialized by its own
// mutex, so concurrent requests against the same session never race.
type BookingSessionHandler struct {
	appointments *services.AppointmentService
	procedures   repositories.ProcedureRepository

	mu       sync.Mutex
	sessions map[string]*bookingSession
	now      func() time.Time
}

// NewBookingSessionHandler creates a new booking session handler
func NewBookingSessionHandler(appointments *services.AppointmentService, procedures repositories.ProcedureRepository) *BookingSessionHandler {
	return &BookingSessionHandler{
		appointments: appointments,
		procedures:   procedures,
		sessions:     make(map[string]*bookingSession),
		now:          time.Now,
	}
}

// Create starts a new booking wizard and returns its session ID
// POST /api/booking-sessions
func (h *BookingSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := sessionFromRequest(r)

	wizard, err := services.NewBookingWizard(identity, h.appointments, h.procedures)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	id := uuid.New().String()
	session := &bookingSession{wizard: wizard, userID: identity.UserID, touchedAt: h.now()}

	h.mu.Lock()
	h.pruneLocked()
	h.sessions[id] = session
	h.mu.Unlock()

	respondWithJSON(w, http.StatusCreated, h.statePayload(id, wizard))
}

// State returns the wizard's current step and draft
// GET /api/booking-sessions/{id}
func (h *BookingSessionHandler) State(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.BookingWizard) {
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Next advances the wizard one step if the current step validates
// POST /api/booking-sessions/{id}/next
func (h *BookingSessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.BookingWizard) {
		if err := wizard.Next(); err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Previous steps the wizard back; on the first step it is a no-op
// POST /api/booking-sessions/{id}/previous
func (h *BookingSessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.BookingWizard) {
		wizard.Previous()
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

type draftPatch struct {
	PatientID      *string `json:"patient_id"`
	PatientName    *string `json:"patient_name"`
	PatientPhone   *string `json:"patient_phone"`
	ProfessionalID *string `json:"professional_id"`
	ProcedureID    *string `json:"procedure_id"`
	Date           *string `json:"date"`
	StartTime      *string `json:"start_time"`
	Notes          *string `json:"notes"`
}

// Patch merges draft fields into the wizard. Selecting a procedure loads it
// and re-derives the end time; an inactive procedure is rejected and leaves
// the draft untouched.
// PATCH /api/booking-sessions/{id}
func (h *BookingSessionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch draftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.withSession(w, r, func(id string, wizard *services.BookingWizard) {
		draft := wizard.Draft()

		if patch.PatientID != nil || patch.PatientName != nil || patch.PatientPhone != nil {
			patientID, name, phone := draft.PatientID, draft.PatientName, draft.PatientPhone
			if patch.PatientID != nil {
				patientID = *patch.PatientID
			}
			if patch.PatientName != nil {
				name = *patch.PatientName
			}
			if patch.PatientPhone != nil {
				phone = *patch.PatientPhone
			}
			wizard.SetPatient(patientID, name, phone)
		}

		if patch.ProfessionalID != nil {
			wizard.SetProfessional(*patch.ProfessionalID)
		}

		if patch.ProcedureID != nil {
			if err := wizard.SetProcedure(r.Context(), *patch.ProcedureID); err != nil {
				respondWithAppError(w, err)
				return
			}
		}

		if patch.Date != nil || patch.StartTime != nil {
			date, start := draft.Date, draft.StartTime
			if patch.Date != nil {
				date = *patch.Date
			}
			if patch.StartTime != nil {
				start = *patch.StartTime
			}
			wizard.SetSchedule(date, start)
		}

		if patch.Notes != nil {
			wizard.SetNotes(*patch.Notes)
		}

		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Submit books the appointment; only the confirm step accepts it.
// A successful submit resets the wizard and returns the appointment.
// POST /api/booking-sessions/{id}/submit
func (h *BookingSessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.BookingWizard) {
		appointmentID, err := wizard.Submit(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"appointment_id": appointmentID,
			"appointment":    wizard.Result(),
		})
	})
}

// Delete abandons a booking session. Only the owning user may abandon it.
// DELETE /api/booking-sessions/{id}
func (h *BookingSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, _ *services.BookingWizard) {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}

// withSession resolves the session, checks ownership and runs fn with the
// wizard's mutex held.
func (h *BookingSessionHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, wizard *services.BookingWizard)) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	// touchedAt is read by pruneLocked under h.mu, so it is written under
	// the same lock.
	h.mu.Lock()
	session, ok := h.sessions[id]
	if ok {
		session.touchedAt = h.now()
	}
	h.mu.Unlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, "booking session not found")
		return
	}
	if identity := sessionFromRequest(r); identity.UserID != session.userID {
		respondWithError(w, http.StatusForbidden, "booking session belongs to another user")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	fn(id, session.wizard)
}

func (h *BookingSessionHandler) statePayload(id string, wizard *services.BookingWizard) map[string]interface{} {
	draft := wizard.Draft()
	return map[string]interface{}{
		"session_id":          id,
		"current_step":        wizard.CurrentStep(),
		"can_go_next":         wizard.CanGoNext(),
		"draft":               draft,
		"wraps_past_midnight": wizard.WrapsPastMidnight(),
	}
}

// pruneLocked drops idle sessions; caller holds h.mu.
func (h *BookingSessionHandler) pruneLocked() {
	cutoff := h.now().Add(-sessionIdleTimeout)
	for id, session := range h.sessions {
		if session.touchedAt.Before(cutoff) {
			delete(h.sessions, id)
		}
	}
}
