package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
)

// heartbeatInterval keeps intermediaries from closing idle streams
const heartbeatInterval = 30 * time.Second

// AgendaStreamHandler streams appointment lifecycle events over SSE so
// clinic dashboards can refresh a professional's agenda live.
type AgendaStreamHandler struct {
	eventBus providers.EventBus
}

// NewAgendaStreamHandler creates a new agenda stream handler
func NewAgendaStreamHandler(eventBus providers.EventBus) *AgendaStreamHandler {
	return &AgendaStreamHandler{eventBus: eventBus}
}

// Stream subscribes the client to one professional's agenda events
// GET /api/professionals/{id}/events
func (h *AgendaStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	professionalID := r.PathValue("id")
	if professionalID == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe ties this client's channel to the request context; when the
	// client disconnects, only this subscriber is removed. Unsubscribe is a
	// channel-wide teardown and must not run here, other dashboards may be
	// watching the same professional.
	channel := providers.GetProfessionalChannel(professionalID)
	events, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Warn().Err(err).Msg("failed to marshal agenda event")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}
