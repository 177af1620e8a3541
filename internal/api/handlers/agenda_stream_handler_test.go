package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmarquez/DoctorQ-sub003/internal/api/handlers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

// stubEventBus hands out a pre-wired channel and counts channel-wide
// teardowns, which a single departing stream client must never trigger.
type stubEventBus struct {
	mu           sync.Mutex
	events       chan *entities.AppointmentEvent
	unsubscribes int
	subscribedTo string
}

func newStubEventBus() *stubEventBus {
	return &stubEventBus{events: make(chan *entities.AppointmentEvent, 1)}
}

func (b *stubEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	b.events <- event
	return nil
}

func (b *stubEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribedTo = channel
	return b.events, nil
}

func (b *stubEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribes++
	return nil
}

func (b *stubEventBus) Close() error { return nil }

func TestAgendaStreamHandler_Stream(t *testing.T) {
	t.Run("streams events and leaves the channel open on disconnect", func(t *testing.T) {
		bus := newStubEventBus()
		handler := handlers.NewAgendaStreamHandler(bus)

		mux := newStreamMux(handler)
		ctx, cancel := context.WithCancel(context.Background())
		r := httptest.NewRequest("GET", "/api/professionals/prof-1/events", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			mux.ServeHTTP(w, r)
			close(done)
		}()

		bus.events <- &entities.AppointmentEvent{
			ID:             "evt-1",
			Type:           entities.AppointmentEventCreated,
			ProfessionalID: "prof-1",
		}
		// Give the handler a moment to flush the event before hanging up.
		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("stream handler did not return after disconnect")
		}

		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "event: appointment.created")
		assert.Contains(t, w.Body.String(), `"id":"evt-1"`)

		bus.mu.Lock()
		defer bus.mu.Unlock()
		assert.Equal(t, "professional:prof-1", bus.subscribedTo)
		assert.Zero(t, bus.unsubscribes, "a departing client must not tear down the whole channel")
	})

	t.Run("requires a professional id", func(t *testing.T) {
		handler := handlers.NewAgendaStreamHandler(newStubEventBus())
		r := httptest.NewRequest("GET", "/api/professionals//events", nil)
		w := httptest.NewRecorder()
		handler.Stream(w, r)
		require.Equal(t, 400, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "professional ID is required"))
	})
}

func newStreamMux(handler *handlers.AgendaStreamHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/professionals/{id}/events", handler.Stream)
	return mux
}
