package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

type rescheduleSession struct {
	workflow  *services.RescheduleWorkflow
	userID    string
	touchedAt time.Time
	mu        sync.Mutex
}

// RescheduleSessionHandler hosts server-side reschedule/cancel workflows
// keyed by session ID, one appointment edit at a time per session. Ownership
// and locking follow the booking session handler.
type RescheduleSessionHandler struct {
	appointments *services.AppointmentService
	availability *services.AvailabilityService

	mu       sync.Mutex
	sessions map[string]*rescheduleSession
	now      func() time.Time
}

// NewRescheduleSessionHandler creates a new reschedule session handler
func NewRescheduleSessionHandler(appointments *services.AppointmentService, availability *services.AvailabilityService) *RescheduleSessionHandler {
	return &RescheduleSessionHandler{
		appointments: appointments,
		availability: availability,
		sessions:     make(map[string]*rescheduleSession),
		now:          time.Now,
	}
}

// Create starts an idle workflow and returns its session ID
// POST /api/reschedule-sessions
func (h *RescheduleSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := sessionFromRequest(r)

	workflow, err := services.NewRescheduleWorkflow(identity, h.appointments, h.availability, h.now)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	id := uuid.New().String()
	session := &rescheduleSession{workflow: workflow, userID: identity.UserID, touchedAt: h.now()}

	h.mu.Lock()
	h.pruneLocked()
	h.sessions[id] = session
	h.mu.Unlock()

	respondWithJSON(w, http.StatusCreated, h.statePayload(id, workflow))
}

// State returns the workflow's phase, calendar and selection
// GET /api/reschedule-sessions/{id}
func (h *RescheduleSessionHandler) State(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		respondWithJSON(w, http.StatusOK, h.statePayload(id, workflow))
	})
}

// BeginReschedule loads an appointment and its upcoming availability
// POST /api/reschedule-sessions/{id}/reschedule
func (h *RescheduleSessionHandler) BeginReschedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppointmentID string `json:"appointment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AppointmentID == "" {
		respondWithError(w, http.StatusBadRequest, "appointment_id is required")
		return
	}

	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		if err := workflow.BeginReschedule(r.Context(), body.AppointmentID); err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, workflow))
	})
}

// BeginCancel opens the cancellation confirmation for an appointment
// POST /api/reschedule-sessions/{id}/cancellation
func (h *RescheduleSessionHandler) BeginCancel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppointmentID string `json:"appointment_id"`
		Reason        string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AppointmentID == "" {
		respondWithError(w, http.StatusBadRequest, "appointment_id is required")
		return
	}

	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		if err := workflow.BeginCancel(r.Context(), body.AppointmentID); err != nil {
			respondWithAppError(w, err)
			return
		}
		if body.Reason != "" {
			workflow.SetCancelReason(body.Reason)
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, workflow))
	})
}

type workflowPatch struct {
	Month        *string `json:"month"`
	Date         *string `json:"date"`
	Slot         *string `json:"slot"`
	Period       *string `json:"period"`
	CancelReason *string `json:"cancel_reason"`
}

// Patch applies calendar navigation, slot selection or the cancel reason
// PATCH /api/reschedule-sessions/{id}
func (h *RescheduleSessionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch workflowPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		if patch.Month != nil {
			switch *patch.Month {
			case "previous":
				workflow.GoToPreviousMonth()
			case "next":
				workflow.GoToNextMonth()
			default:
				respondWithError(w, http.StatusBadRequest, "month must be previous or next")
				return
			}
		}
		if patch.Date != nil {
			workflow.SelectDate(*patch.Date)
		}
		if patch.Period != nil {
			workflow.SetPeriod(scheduling.Period(*patch.Period))
		}
		if patch.Slot != nil {
			if err := workflow.SelectSlot(*patch.Slot); err != nil {
				respondWithAppError(w, err)
				return
			}
		}
		if patch.CancelReason != nil {
			workflow.SetCancelReason(*patch.CancelReason)
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, workflow))
	})
}

// Confirm submits whichever edit is in progress: a cancellation when the
// workflow is confirming one, otherwise the reschedule to the selected slot
// POST /api/reschedule-sessions/{id}/confirm
func (h *RescheduleSessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		var err error
		if workflow.State() == services.WorkflowConfirming {
			if body.Reason != "" {
				workflow.SetCancelReason(body.Reason)
			}
			err = workflow.ConfirmCancel(r.Context())
		} else {
			err = workflow.ConfirmReschedule(r.Context(), body.Reason)
		}
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, h.statePayload(id, workflow))
	})
}

// Delete discards the session; only the owning user may do so
// DELETE /api/reschedule-sessions/{id}
func (h *RescheduleSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, workflow *services.RescheduleWorkflow) {
		workflow.Close()
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}

// withSession resolves the session, checks ownership and runs fn with the
// workflow's mutex held.
func (h *RescheduleSessionHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, workflow *services.RescheduleWorkflow)) {
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
		respondWithError(w, http.StatusNotFound, "reschedule session not found")
		return
	}
	if identity := sessionFromRequest(r); identity.UserID != session.userID {
		respondWithError(w, http.StatusForbidden, "reschedule session belongs to another user")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	fn(id, session.workflow)
}

func (h *RescheduleSessionHandler) statePayload(id string, workflow *services.RescheduleWorkflow) map[string]interface{} {
	payload := map[string]interface{}{
		"session_id":    id,
		"state":         workflow.State(),
		"last_error":    workflow.LastError(),
		"appointment":   workflow.Appointment(),
		"selected_date": workflow.SelectedDate(),
		"selected_slot": workflow.SelectedSlot(),
	}
	if workflow.State() == services.WorkflowSelectingSlot {
		payload["cells"] = workflow.Cells()
		payload["available_slots"] = workflow.AvailableSlots()
	}
	return payload
}

// pruneLocked drops idle sessions; caller holds h.mu.
func (h *RescheduleSessionHandler) pruneLocked() {
	cutoff := h.now().Add(-sessionIdleTimeout)
	for id, session := range h.sessions {
		if session.touchedAt.Before(cutoff) {
			delete(h.sessions, id)
		}
	}
}
