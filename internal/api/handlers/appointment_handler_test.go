package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbmarquez/DoctorQ-sub003/internal/api/handlers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

type appointmentFixture struct {
	handler       *handlers.AppointmentHandler
	repo          *MockAppointmentRepository
	procedures    *MockProcedureRepository
	professionals *MockProfessionalRepository
	provider      *MockSchedulingProvider
}

func newAppointmentFixture() *appointmentFixture {
	repo := new(MockAppointmentRepository)
	procedures := new(MockProcedureRepository)
	professionals := new(MockProfessionalRepository)
	provider := new(MockSchedulingProvider)

	service := services.NewAppointmentService(repo, procedures, professionals, provider, nil, nil, nil)

	return &appointmentFixture{
		handler:       handlers.NewAppointmentHandler(service),
		repo:          repo,
		procedures:    procedures,
		professionals: professionals,
		provider:      provider,
	}
}

func newMux(f *appointmentFixture) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/appointments", f.handler.Create)
	mux.HandleFunc("GET /api/appointments/{id}", f.handler.Get)
	mux.HandleFunc("POST /api/appointments/{id}/reschedule", f.handler.Reschedule)
	mux.HandleFunc("POST /api/appointments/{id}/cancellation", f.handler.Cancel)
	mux.HandleFunc("GET /api/patients/{id}/appointments", f.handler.ListByPatient)
	return mux
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("X-User-ID", "patient-1")
	r.Header.Set("X-User-Role", "patient")
	return r
}

func storedAppointment(status entities.AppointmentStatus) *entities.Appointment {
	external := "ext-1"
	return &entities.Appointment{
		ID:              "appt-1",
		PatientID:       "patient-1",
		ProfessionalID:  "prof-1",
		ScheduledAt:     time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
		Status:          status,
		PatientName:     "Maria Souza",
		PatientPhone:    "+5511999990000",
		AgendaEventID:   &external,
	}
}

func TestAppointmentHandler_Create(t *testing.T) {
	t.Run("books a valid draft", func(t *testing.T) {
		f := newAppointmentFixture()
		f.procedures.On("GetByID", mock.Anything, "proc-1").Return(&entities.Procedure{
			ID: "proc-1", ProfessionalID: "prof-1", Name: "Limpeza",
			DurationMinutes: 45, BufferMinutes: 10, IsActive: true,
		}, nil)
		f.professionals.On("GetByID", mock.Anything, "prof-1").Return(&entities.Professional{
			ID: "prof-1", Name: "Dra. Ana Lima",
		}, nil)
		f.provider.On("CreateAppointment", mock.Anything, mock.Anything).Return("ext-1", nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		body := `{"patient_id":"patient-1","patient_name":"Maria Souza","patient_phone":"+5511999990000",
			"professional_id":"prof-1","procedure_id":"proc-1","date":"2025-06-10","start_time":"14:00"}`
		rec := httptest.NewRecorder()
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments", body))

		require.Equal(t, http.StatusCreated, rec.Code)

		var appointment entities.Appointment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appointment))
		assert.Equal(t, entities.AppointmentStatusRequested, appointment.Status)
		assert.Equal(t, 45, appointment.DurationMinutes)
		require.NotNil(t, appointment.AgendaEventID)
		assert.Equal(t, "ext-1", *appointment.AgendaEventID)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		f := newAppointmentFixture()
		rec := httptest.NewRecorder()
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.provider.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})

	t.Run("surfaces field errors for an incomplete draft", func(t *testing.T) {
		f := newAppointmentFixture()
		rec := httptest.NewRecorder()
		body := `{"patient_id":"patient-1","professional_id":"prof-1"}`
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Contains(t, payload.Fields, "procedure_id")
		assert.Contains(t, payload.Fields, "date")
		f.provider.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unresolved identity", func(t *testing.T) {
		f := newAppointmentFixture()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
		newMux(f).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAppointmentHandler_Get(t *testing.T) {
	t.Run("returns the appointment", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusConfirmed), nil)

		rec := httptest.NewRecorder()
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/appointments/appt-1", ""))

		require.Equal(t, http.StatusOK, rec.Code)

		var appointment entities.Appointment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appointment))
		assert.Equal(t, "appt-1", appointment.ID)
	})

	t.Run("maps not found to 404", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("appointment not found"))

		rec := httptest.NewRecorder()
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/appointments/missing", ""))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAppointmentHandler_Reschedule(t *testing.T) {
	t.Run("moves the appointment", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusConfirmed), nil)
		f.provider.On("RescheduleAppointment", mock.Anything, "ext-1", "2025-06-12T09:30", "conflito de agenda").Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		body := `{"scheduled_at":"2025-06-12T09:30","reason":"conflito de agenda"}`
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments/appt-1/reschedule", body))

		require.Equal(t, http.StatusOK, rec.Code)

		var appointment entities.Appointment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appointment))
		assert.Equal(t, time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC), appointment.ScheduledAt)
	})

	t.Run("maps a taken slot to 409", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusConfirmed), nil)
		f.provider.On("RescheduleAppointment", mock.Anything, "ext-1", "2025-06-12T09:30", "").
			Return(apperrors.NewConflictError("slot is no longer available"))

		rec := httptest.NewRecorder()
		body := `{"scheduled_at":"2025-06-12T09:30"}`
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments/appt-1/reschedule", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects a terminal appointment", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusCompleted), nil)

		rec := httptest.NewRecorder()
		body := `{"scheduled_at":"2025-06-12T09:30"}`
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments/appt-1/reschedule", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
		f.provider.AssertNotCalled(t, "RescheduleAppointment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppointmentHandler_Cancel(t *testing.T) {
	t.Run("cancels the appointment", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusConfirmed), nil)
		f.provider.On("CancelAppointment", mock.Anything, "ext-1", "paciente desistiu").Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		body := `{"reason":"paciente desistiu"}`
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments/appt-1/cancellation", body))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already cancelled succeeds without provider call", func(t *testing.T) {
		f := newAppointmentFixture()
		f.repo.On("GetByID", mock.Anything, "appt-1").Return(storedAppointment(entities.AppointmentStatusCancelled), nil)

		rec := httptest.NewRecorder()
		newMux(f).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/appointments/appt-1/cancellation", `{}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		f.provider.AssertNotCalled(t, "CancelAppointment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppointmentHandler_ListByPatient(t *testing.T) {
	f := newAppointmentFixture()
	f.repo.On("ListByPatient", mock.Anything, "patient-1", mock.Anything).
		Return([]*entities.Appointment{storedAppointment(entities.AppointmentStatusConfirmed)}, nil)

	rec := httptest.NewRecorder()
	newMux(f).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/patients/patient-1/appointments?status=confirmed", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Appointments []*entities.Appointment `json:"appointments"`
		Count        int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "appt-1", payload.Appointments[0].ID)
}
