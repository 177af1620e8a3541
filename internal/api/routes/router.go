package routes

import (
	"net/http"

	"github.com/rbmarquez/DoctorQ-sub003/internal/api/handlers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/api/middleware"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	appointmentHandler       *handlers.AppointmentHandler
	availabilityHandler      *handlers.AvailabilityHandler
	procedureHandler         *handlers.ProcedureHandler
	professionalHandler      *handlers.ProfessionalHandler
	bookingSessionHandler    *handlers.BookingSessionHandler
	rescheduleSessionHandler *handlers.RescheduleSessionHandler
	vacancySessionHandler    *handlers.VacancySessionHandler
	agendaStreamHandler      *handlers.AgendaStreamHandler

	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	appointmentHandler *handlers.AppointmentHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	procedureHandler *handlers.ProcedureHandler,
	professionalHandler *handlers.ProfessionalHandler,
	bookingSessionHandler *handlers.BookingSessionHandler,
	rescheduleSessionHandler *handlers.RescheduleSessionHandler,
	vacancySessionHandler *handlers.VacancySessionHandler,
	agendaStreamHandler *handlers.AgendaStreamHandler,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                      http.NewServeMux(),
		appointmentHandler:       appointmentHandler,
		availabilityHandler:      availabilityHandler,
		procedureHandler:         procedureHandler,
		professionalHandler:      professionalHandler,
		bookingSessionHandler:    bookingSessionHandler,
		rescheduleSessionHandler: rescheduleSessionHandler,
		vacancySessionHandler:    vacancySessionHandler,
		agendaStreamHandler:      agendaStreamHandler,
		cache:                    cache,
		metrics:                  metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Appointment endpoints
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.Create)
	r.mux.HandleFunc("GET /api/appointments/{id}", r.appointmentHandler.Get)
	r.mux.HandleFunc("POST /api/appointments/{id}/reschedule", r.appointmentHandler.Reschedule)
	r.mux.HandleFunc("POST /api/appointments/{id}/cancellation", r.appointmentHandler.Cancel)
	r.mux.HandleFunc("GET /api/patients/{id}/appointments", r.appointmentHandler.ListByPatient)

	// Professional directory endpoints
	r.mux.HandleFunc("GET /api/professionals", r.professionalHandler.List)
	r.mux.HandleFunc("GET /api/professionals/{id}", r.professionalHandler.Get)

	// Availability endpoints
	r.mux.HandleFunc("GET /api/professionals/{id}/availability", r.availabilityHandler.Fetch)
	r.mux.HandleFunc("GET /api/professionals/{id}/calendar", r.availabilityHandler.Calendar)
	r.mux.HandleFunc("GET /api/professionals/{id}/slots", r.availabilityHandler.Slots)

	// Procedure catalog endpoints
	r.mux.HandleFunc("POST /api/procedures", r.procedureHandler.Create)
	r.mux.HandleFunc("GET /api/procedures/{id}", r.procedureHandler.Get)
	r.mux.HandleFunc("PUT /api/procedures/{id}", r.procedureHandler.Update)
	r.mux.HandleFunc("DELETE /api/procedures/{id}", r.procedureHandler.Delete)
	r.mux.HandleFunc("GET /api/professionals/{id}/procedures", r.procedureHandler.ListByProfessional)

	// Booking wizard session endpoints
	r.mux.HandleFunc("POST /api/booking-sessions", r.bookingSessionHandler.Create)
	r.mux.HandleFunc("GET /api/booking-sessions/{id}", r.bookingSessionHandler.State)
	r.mux.HandleFunc("PATCH /api/booking-sessions/{id}", r.bookingSessionHandler.Patch)
	r.mux.HandleFunc("DELETE /api/booking-sessions/{id}", r.bookingSessionHandler.Delete)
	r.mux.HandleFunc("POST /api/booking-sessions/{id}/next", r.bookingSessionHandler.Next)
	r.mux.HandleFunc("POST /api/booking-sessions/{id}/previous", r.bookingSessionHandler.Previous)
	r.mux.HandleFunc("POST /api/booking-sessions/{id}/submit", r.bookingSessionHandler.Submit)

	// Reschedule/cancel workflow session endpoints
	r.mux.HandleFunc("POST /api/reschedule-sessions", r.rescheduleSessionHandler.Create)
	r.mux.HandleFunc("GET /api/reschedule-sessions/{id}", r.rescheduleSessionHandler.State)
	r.mux.HandleFunc("PATCH /api/reschedule-sessions/{id}", r.rescheduleSessionHandler.Patch)
	r.mux.HandleFunc("DELETE /api/reschedule-sessions/{id}", r.rescheduleSessionHandler.Delete)
	r.mux.HandleFunc("POST /api/reschedule-sessions/{id}/reschedule", r.rescheduleSessionHandler.BeginReschedule)
	r.mux.HandleFunc("POST /api/reschedule-sessions/{id}/cancellation", r.rescheduleSessionHandler.BeginCancel)
	r.mux.HandleFunc("POST /api/reschedule-sessions/{id}/confirm", r.rescheduleSessionHandler.Confirm)

	// Vacancy posting wizard session endpoints
	r.mux.HandleFunc("POST /api/vacancy-sessions", r.vacancySessionHandler.Create)
	r.mux.HandleFunc("GET /api/vacancy-sessions/{id}", r.vacancySessionHandler.State)
	r.mux.HandleFunc("PATCH /api/vacancy-sessions/{id}", r.vacancySessionHandler.Patch)
	r.mux.HandleFunc("DELETE /api/vacancy-sessions/{id}", r.vacancySessionHandler.Delete)
	r.mux.HandleFunc("POST /api/vacancy-sessions/{id}/next", r.vacancySessionHandler.Next)
	r.mux.HandleFunc("POST /api/vacancy-sessions/{id}/previous", r.vacancySessionHandler.Previous)
	r.mux.HandleFunc("POST /api/vacancy-sessions/{id}/submit", r.vacancySessionHandler.Submit)

	// Live agenda event stream for clinic dashboards
	if r.agendaStreamHandler != nil {
		r.mux.HandleFunc("GET /api/professionals/{id}/events", r.agendaStreamHandler.Stream)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Logging(handler)

	if r.cache != nil {
		handler = middleware.ResponseCache(r.cache)(handler)
	}

	handler = middleware.Observability(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(handler)

	return handler
}
