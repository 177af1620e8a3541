package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

func newAppointmentService(repo *MockAppointmentRepository, procedures *MockProcedureRepository, professionals *MockProfessionalRepository, provider *MockSchedulingProvider) *services.AppointmentService {
	return services.NewAppointmentService(repo, procedures, professionals, provider, nil, nil, nil)
}

func validDraft() *entities.BookingDraft {
	return &entities.BookingDraft{
		PatientID:      "patient-1",
		PatientName:    "Maria Souza",
		PatientPhone:   "+5511999990000",
		ProfessionalID: "prof-1",
		ProcedureID:    "proc-1",
		Date:           "2025-06-10",
		StartTime:      "14:00",
		EndTime:        "14:45",
	}
}

func TestAppointmentService_CreateFromDraft(t *testing.T) {
	session := entities.Session{UserID: "user-1", Role: "patient"}

	t.Run("creates an appointment from a complete draft", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		procedures := new(MockProcedureRepository)
		professionals := new(MockProfessionalRepository)
		provider := new(MockSchedulingProvider)
		service := newAppointmentService(repo, procedures, professionals, provider)

		// Duration 45 with buffer 10: the buffer blocks agenda time but
		// never widens the appointment's own recorded duration.
		procedures.On("GetByID", mock.Anything, "proc-1").Return(&entities.Procedure{
			ID: "proc-1", Name: "Consulta", DurationMinutes: 45, BufferMinutes: 10, IsActive: true,
		}, nil)
		professionals.On("GetByID", mock.Anything, "prof-1").Return(&entities.Professional{
			ID: "prof-1", Name: "Dr. Silva",
		}, nil)
		provider.On("CreateAppointment", mock.Anything, mock.Anything).Return("ext-1", nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.Status == entities.AppointmentStatusRequested &&
				a.DurationMinutes == 45 &&
				a.ScheduledAt.Equal(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))
		})).Return(nil)

		appointment, err := service.CreateFromDraft(context.Background(), session, validDraft())
		require.NoError(t, err)
		assert.NotEmpty(t, appointment.ID)
		assert.Equal(t, "ext-1", *appointment.AgendaEventID)
		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("rejects an incomplete draft before any network call", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		provider := new(MockSchedulingProvider)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), provider)

		draft := validDraft()
		draft.ProcedureID = ""
		draft.StartTime = ""

		_, err := service.CreateFromDraft(context.Background(), session, draft)
		require.Error(t, err)

		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Fields, "procedure_id")
		assert.Contains(t, appErr.Fields, "start_time")
		provider.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})

	t.Run("rejects an inactive procedure", func(t *testing.T) {
		procedures := new(MockProcedureRepository)
		service := newAppointmentService(new(MockAppointmentRepository), procedures, new(MockProfessionalRepository), new(MockSchedulingProvider))

		procedures.On("GetByID", mock.Anything, "proc-1").Return(&entities.Procedure{
			ID: "proc-1", DurationMinutes: 45, IsActive: false,
		}, nil)

		_, err := service.CreateFromDraft(context.Background(), session, validDraft())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects an unresolved session", func(t *testing.T) {
		service := newAppointmentService(new(MockAppointmentRepository), new(MockProcedureRepository), new(MockProfessionalRepository), new(MockSchedulingProvider))
		_, err := service.CreateFromDraft(context.Background(), entities.Session{}, validDraft())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestAppointmentService_Reschedule(t *testing.T) {
	t.Run("moves a confirmed appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		provider := new(MockSchedulingProvider)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), provider)

		externalID := "ext-1"
		repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
			ID: "appt-1", ProfessionalID: "prof-1", Status: entities.AppointmentStatusConfirmed,
			AgendaEventID: &externalID,
		}, nil)
		provider.On("RescheduleAppointment", mock.Anything, "ext-1", "2025-06-12T10:30", "conflict").Return(nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.ScheduledAt.Equal(time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC))
		})).Return(nil)

		updated, err := service.Reschedule(context.Background(), "appt-1", "2025-06-12T10:30", "conflict")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC), updated.ScheduledAt)
		repo.AssertExpectations(t)
	})

	t.Run("terminal states cannot be rescheduled", func(t *testing.T) {
		for _, status := range []entities.AppointmentStatus{entities.AppointmentStatusCompleted, entities.AppointmentStatusCancelled} {
			repo := new(MockAppointmentRepository)
			provider := new(MockSchedulingProvider)
			service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), provider)

			repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
				ID: "appt-1", Status: status,
			}, nil)

			_, err := service.Reschedule(context.Background(), "appt-1", "2025-06-12T10:30", "")
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict), "status %s", status)
			provider.AssertNotCalled(t, "RescheduleAppointment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("rejects a malformed timestamp", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), new(MockSchedulingProvider))

		repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
			ID: "appt-1", Status: entities.AppointmentStatusRequested,
		}, nil)

		_, err := service.Reschedule(context.Background(), "appt-1", "June 12th", "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAppointmentService_Cancel(t *testing.T) {
	t.Run("cancels a requested appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		provider := new(MockSchedulingProvider)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), provider)

		repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
			ID: "appt-1", Status: entities.AppointmentStatusRequested,
		}, nil)
		provider.On("CancelAppointment", mock.Anything, "", "no longer needed").Return(nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.Status == entities.AppointmentStatusCancelled
		})).Return(nil)

		require.NoError(t, service.Cancel(context.Background(), "appt-1", "no longer needed"))
		repo.AssertExpectations(t)
	})

	t.Run("cancelling an already-cancelled appointment succeeds", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		provider := new(MockSchedulingProvider)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), provider)

		repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
			ID: "appt-1", Status: entities.AppointmentStatusCancelled,
		}, nil)

		require.NoError(t, service.Cancel(context.Background(), "appt-1", ""))
		provider.AssertNotCalled(t, "CancelAppointment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completed appointments cannot be cancelled", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := newAppointmentService(repo, new(MockProcedureRepository), new(MockProfessionalRepository), new(MockSchedulingProvider))

		repo.On("GetByID", mock.Anything, "appt-1").Return(&entities.Appointment{
			ID: "appt-1", Status: entities.AppointmentStatusCompleted,
		}, nil)

		err := service.Cancel(context.Background(), "appt-1", "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}
