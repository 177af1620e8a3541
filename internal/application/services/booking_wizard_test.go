package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbmarquez/DoctorQ-sub003/internal/application/services"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

type bookingFixture struct {
	wizard        *services.BookingWizard
	repo          *MockAppointmentRepository
	procedures    *MockProcedureRepository
	professionals *MockProfessionalRepository
	provider      *MockSchedulingProvider
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	repo := new(MockAppointmentRepository)
	procedures := new(MockProcedureRepository)
	professionals := new(MockProfessionalRepository)
	provider := new(MockSchedulingProvider)
	appointments := services.NewAppointmentService(repo, procedures, professionals, provider, nil, nil, nil)

	wizard, err := services.NewBookingWizard(entities.Session{UserID: "user-1", Role: "patient"}, appointments, procedures)
	require.NoError(t, err)

	return &bookingFixture{
		wizard:        wizard,
		repo:          repo,
		procedures:    procedures,
		professionals: professionals,
		provider:      provider,
	}
}

func (f *bookingFixture) stubProcedure(duration, buffer int) {
	f.procedures.On("GetByID", mock.Anything, "proc-1").Return(&entities.Procedure{
		ID: "proc-1", Name: "Limpeza", DurationMinutes: duration, BufferMinutes: buffer, IsActive: true,
	}, nil)
}

func TestBookingWizard_StepGating(t *testing.T) {
	t.Run("next is blocked until the step's fields are filled", func(t *testing.T) {
		f := newBookingFixture(t)

		assert.Equal(t, services.StepPatientSelect, f.wizard.CurrentStep())
		assert.False(t, f.wizard.CanGoNext())

		err := f.wizard.Next()
		require.Error(t, err)
		appErr := err.(*apperrors.AppError)
		assert.Contains(t, appErr.Fields, "patient_id")
		assert.Equal(t, services.StepPatientSelect, f.wizard.CurrentStep())

		f.wizard.SetPatient("patient-1", "Maria Souza", "+5511999990000")
		require.NoError(t, f.wizard.Next())
		assert.Equal(t, services.StepProcedureSelect, f.wizard.CurrentStep())
	})

	t.Run("previous always succeeds and stops at the first step", func(t *testing.T) {
		f := newBookingFixture(t)

		f.wizard.SetPatient("patient-1", "Maria Souza", "")
		require.NoError(t, f.wizard.Next())

		f.wizard.Previous()
		assert.Equal(t, services.StepPatientSelect, f.wizard.CurrentStep())
		f.wizard.Previous()
		assert.Equal(t, services.StepPatientSelect, f.wizard.CurrentStep())
	})

	t.Run("steps are never skipped", func(t *testing.T) {
		f := newBookingFixture(t)

		f.wizard.SetPatient("patient-1", "Maria Souza", "")
		require.NoError(t, f.wizard.Next())

		// Schedule data alone does not satisfy the procedure step.
		f.wizard.SetProfessional("prof-1")
		f.wizard.SetSchedule("2025-06-10", "14:00")
		err := f.wizard.Next()
		require.Error(t, err)
		assert.Equal(t, services.StepProcedureSelect, f.wizard.CurrentStep())
	})
}

func TestBookingWizard_EndTimeDerivation(t *testing.T) {
	t.Run("end time is start plus procedure duration, buffer excluded", func(t *testing.T) {
		f := newBookingFixture(t)
		f.stubProcedure(45, 10)

		require.NoError(t, f.wizard.SetProcedure(context.Background(), "proc-1"))
		f.wizard.SetSchedule("2025-06-10", "14:00")

		assert.Equal(t, "14:45", f.wizard.Draft().EndTime)
		assert.False(t, f.wizard.WrapsPastMidnight())
	})

	t.Run("end time wraps past midnight as time-of-day", func(t *testing.T) {
		f := newBookingFixture(t)
		f.stubProcedure(60, 0)

		require.NoError(t, f.wizard.SetProcedure(context.Background(), "proc-1"))
		f.wizard.SetSchedule("2025-06-10", "23:30")

		assert.Equal(t, "00:30", f.wizard.Draft().EndTime)
		assert.True(t, f.wizard.WrapsPastMidnight())
	})

	t.Run("changing the procedure re-derives the end time", func(t *testing.T) {
		f := newBookingFixture(t)
		f.stubProcedure(45, 10)
		f.procedures.On("GetByID", mock.Anything, "proc-2").Return(&entities.Procedure{
			ID: "proc-2", DurationMinutes: 30, IsActive: true,
		}, nil)

		require.NoError(t, f.wizard.SetProcedure(context.Background(), "proc-1"))
		f.wizard.SetSchedule("2025-06-10", "14:00")
		require.NoError(t, f.wizard.SetProcedure(context.Background(), "proc-2"))

		assert.Equal(t, "14:30", f.wizard.Draft().EndTime)
	})

	t.Run("an inactive procedure is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		f.procedures.On("GetByID", mock.Anything, "proc-1").Return(&entities.Procedure{
			ID: "proc-1", DurationMinutes: 45, IsActive: false,
		}, nil)

		err := f.wizard.SetProcedure(context.Background(), "proc-1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.Empty(t, f.wizard.Draft().ProcedureID)
	})
}

func TestBookingWizard_Submit(t *testing.T) {
	fillAndAdvance := func(t *testing.T, f *bookingFixture) {
		t.Helper()
		f.wizard.SetPatient("patient-1", "Maria Souza", "+5511999990000")
		require.NoError(t, f.wizard.Next())
		require.NoError(t, f.wizard.SetProcedure(context.Background(), "proc-1"))
		require.NoError(t, f.wizard.Next())
		f.wizard.SetProfessional("prof-1")
		f.wizard.SetSchedule("2025-06-10", "14:00")
		require.NoError(t, f.wizard.Next())
		require.Equal(t, services.StepConfirm, f.wizard.CurrentStep())
	}

	t.Run("submit creates the appointment and resets the draft", func(t *testing.T) {
		f := newBookingFixture(t)
		f.stubProcedure(45, 10)
		f.professionals.On("GetByID", mock.Anything, "prof-1").Return(&entities.Professional{ID: "prof-1"}, nil)
		f.provider.On("CreateAppointment", mock.Anything, mock.Anything).Return("ext-1", nil)
		f.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.DurationMinutes == 45
		})).Return(nil)

		fillAndAdvance(t, f)

		id, err := f.wizard.Submit(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, f.wizard.Result().ID)

		// Success discards the draft and returns to the first step.
		assert.Equal(t, services.StepPatientSelect, f.wizard.CurrentStep())
		assert.Empty(t, f.wizard.Draft().PatientID)
		assert.Empty(t, f.wizard.Draft().EndTime)
	})

	t.Run("submit is only allowed on the last step", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.wizard.Submit(context.Background())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		f.provider.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})

	t.Run("a failed submit keeps the draft for retry", func(t *testing.T) {
		f := newBookingFixture(t)
		f.stubProcedure(45, 10)
		f.professionals.On("GetByID", mock.Anything, "prof-1").Return(&entities.Professional{ID: "prof-1"}, nil)
		f.provider.On("CreateAppointment", mock.Anything, mock.Anything).Return("", apperrors.NewExternalError("agenda unavailable", nil))

		fillAndAdvance(t, f)

		_, err := f.wizard.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, services.StepConfirm, f.wizard.CurrentStep())
		assert.Equal(t, "patient-1", f.wizard.Draft().PatientID)
	})
}
