package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

type vacancySession struct {
	wizard    *services.VacancyWizard
	userID    string
	touchedAt time.Time
	mu        sync.Mutex
}

// VacancySessionHandler hosts the clinic-side job-posting wizard. The final
// creation request goes through the injected VacancyCreator; posting
// persistence lives outside the scheduling engine.
type VacancySessionHandler struct {
	create services.VacancyCreator

	mu       sync.Mutex
	sessions map[string]*vacancySession
	now      func() time.Time
}

// NewVacancySessionHandler creates a new vacancy session handler
func NewVacancySessionHandler(create services.VacancyCreator) *VacancySessionHandler {
	return &VacancySessionHandler{
		create:   create,
		sessions: make(map[string]*vacancySession),
		now:      time.Now,
	}
}

// Create starts a posting wizard; only clinic users may post vacancies
// POST /api/vacancy-sessions
func (h *VacancySessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := sessionFromRequest(r)
	if identity.IsValid() && identity.Role != "clinic" {
		respondWithError(w, http.StatusForbidden, "only clinics can post vacancies")
		return
	}

	wizard, err := services.NewVacancyWizard(identity, h.create)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if identity.ClinicID != nil {
		wizard.Patch(entities.VacancyDraft{ClinicID: *identity.ClinicID})
	}

	id := uuid.New().String()
	session := &vacancySession{wizard: wizard, userID: identity.UserID, touchedAt: h.now()}

	h.mu.Lock()
	h.pruneLocked()
	h.sessions[id] = session
	h.mu.Unlock()

	respondWithJSON(w, http.StatusCreated, h.statePayload(id, wizard))
}

// State returns the wizard's current step and draft
// GET /api/vacancy-sessions/{id}
func (h *VacancySessionHandler) State(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.VacancyWizard) {
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Patch merges non-empty draft fields into the wizard
// PATCH /api/vacancy-sessions/{id}
func (h *VacancySessionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var update entities.VacancyDraft
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.withSession(w, r, func(id string, wizard *services.VacancyWizard) {
		wizard.Patch(update)
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Next advances one step behind the validation gate
// POST /api/vacancy-sessions/{id}/next
func (h *VacancySessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.VacancyWizard) {
		if err := wizard.Next(); err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Previous steps the wizard back; on the first step it is a no-op
// POST /api/vacancy-sessions/{id}/previous
func (h *VacancySessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.VacancyWizard) {
		wizard.Previous()
		respondWithJSON(w, http.StatusOK, h.statePayload(id, wizard))
	})
}

// Submit creates the posting; only the confirm step accepts it
// POST /api/vacancy-sessions/{id}/submit
func (h *VacancySessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, wizard *services.VacancyWizard) {
		vacancyID, err := wizard.Submit(r.Context())
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"vacancy_id": vacancyID,
		})
	})
}

// Delete abandons a posting session; only the owning user may do so
// DELETE /api/vacancy-sessions/{id}
func (h *VacancySessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, _ *services.VacancyWizard) {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}

// withSession resolves the session, checks ownership and runs fn with the
// wizard's mutex held.
func (h *VacancySessionHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, wizard *services.VacancyWizard)) {
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
		respondWithError(w, http.StatusNotFound, "vacancy session not found")
		return
	}
	if identity := sessionFromRequest(r); identity.UserID != session.userID {
		respondWithError(w, http.StatusForbidden, "vacancy session belongs to another user")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	fn(id, session.wizard)
}

func (h *VacancySessionHandler) statePayload(id string, wizard *services.VacancyWizard) map[string]interface{} {
	return map[string]interface{}{
		"session_id":   id,
		"current_step": wizard.CurrentStep(),
		"can_go_next":  wizard.CanGoNext(),
		"draft":        wizard.Draft(),
	}
}

// pruneLocked drops idle sessions; caller holds h.mu.
func (h *VacancySessionHandler) pruneLocked() {
	cutoff := h.now().Add(-sessionIdleTimeout)
	for id, session := range h.sessions {
		if session.touchedAt.Before(cutoff) {
			delete(h.sessions, id)
		}
	}
}
