package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// startTimestampLayout composes the canonical date string and the slot time,
// joined by "T". The engine works in wall-clock time; the agenda owns the
// timezone.
const startTimestampLayout = "2006-01-02T15:04"

// AppointmentService handles appointment creation, rescheduling and
// cancellation against the external agenda plus local persistence.
type AppointmentService struct {
	repo             repositories.AppointmentRepository
	procedureRepo    repositories.ProcedureRepository
	professionalRepo repositories.ProfessionalRepository
	provider         providers.SchedulingProvider
	availability     *AvailabilityService
	eventBus         providers.EventBus
	notifications    *NotificationService
}

// NewAppointmentService creates a new appointment service. eventBus and
// notifications are optional; pass nil to skip those side effects.
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	procedureRepo repositories.ProcedureRepository,
	professionalRepo repositories.ProfessionalRepository,
	provider providers.SchedulingProvider,
	availability *AvailabilityService,
	eventBus providers.EventBus,
	notifications *NotificationService,
) *AppointmentService {
	return &AppointmentService{
		repo:             repo,
		procedureRepo:    procedureRepo,
		professionalRepo: professionalRepo,
		provider:         provider,
		availability:     availability,
		eventBus:         eventBus,
		notifications:    notifications,
	}
}

// ParseStartTimestamp parses a "YYYY-MM-DDTHH:MM" start timestamp.
func ParseStartTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(startTimestampLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid start timestamp %q", s))
	}
	return t, nil
}

// ComposeStartTimestamp joins a canonical date and an "HH:MM" slot time.
func ComposeStartTimestamp(date, slotTime string) string {
	return date + "T" + slotTime
}

// ValidateDraft checks every required field of a booking draft wholesale,
// as done on final submission. Per-step checks live in the wizard.
func ValidateDraft(draft *entities.BookingDraft) map[string]string {
	fields := make(map[string]string)
	if draft.PatientID == "" {
		fields["patient_id"] = "patient is required"
	}
	if draft.ProfessionalID == "" {
		fields["professional_id"] = "professional is required"
	}
	if draft.ProcedureID == "" {
		fields["procedure_id"] = "procedure is required"
	}
	if draft.Date == "" {
		fields["date"] = "date is required"
	} else if _, err := scheduling.ParseDate(draft.Date); err != nil {
		fields["date"] = "date must be YYYY-MM-DD"
	}
	if draft.StartTime == "" {
		fields["start_time"] = "start time is required"
	} else if _, ok := scheduling.ParseClock(draft.StartTime); !ok {
		fields["start_time"] = "start time must be HH:MM"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// CreateFromDraft validates the draft wholesale and converts it into a
// creation request: external agenda first, then local persistence. The
// appointment's duration is the procedure duration alone; the buffer only
// affects slot blocking on the agenda side.
func (s *AppointmentService) CreateFromDraft(ctx context.Context, session entities.Session, draft *entities.BookingDraft) (*entities.Appointment, error) {
	if !session.IsValid() {
		return nil, apperrors.NewUnauthorizedError("session is not resolved")
	}
	if fields := ValidateDraft(draft); fields != nil {
		return nil, apperrors.NewFieldValidationError("booking draft is incomplete", fields)
	}

	procedure, err := s.procedureRepo.GetByID(ctx, draft.ProcedureID)
	if err != nil {
		return nil, err
	}
	if !procedure.IsActive {
		return nil, apperrors.NewValidationError("procedure is no longer offered")
	}

	professional, err := s.professionalRepo.GetByID(ctx, draft.ProfessionalID)
	if err != nil {
		return nil, err
	}

	scheduledAt, err := ParseStartTimestamp(ComposeStartTimestamp(draft.Date, draft.StartTime))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	procedureID := draft.ProcedureID
	appointment := &entities.Appointment{
		ID:              uuid.New().String(),
		PatientID:       draft.PatientID,
		ProfessionalID:  professional.ID,
		ClinicID:        professional.ClinicID,
		ProcedureID:     &procedureID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: procedure.DurationMinutes,
		Status:          entities.AppointmentStatusRequested,
		PatientName:     draft.PatientName,
		PatientPhone:    draft.PatientPhone,
		Notes:           draft.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	externalID, err := s.provider.CreateAppointment(ctx, appointment)
	if err != nil {
		return nil, err
	}
	if externalID != "" {
		appointment.AgendaEventID = &externalID
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, appointment, entities.AppointmentEventCreated, "")
	return appointment, nil
}

// Reschedule moves an existing appointment to a new start timestamp.
// Only requested or confirmed appointments can move; completed and
// cancelled are terminal.
func (s *AppointmentService) Reschedule(ctx context.Context, id, newStart, reason string) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.CanModify() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("appointment is %s and cannot be rescheduled", appointment.Status))
	}

	scheduledAt, err := ParseStartTimestamp(newStart)
	if err != nil {
		return nil, err
	}

	externalID := ""
	if appointment.AgendaEventID != nil {
		externalID = *appointment.AgendaEventID
	}
	if err := s.provider.RescheduleAppointment(ctx, externalID, newStart, reason); err != nil {
		return nil, err
	}

	appointment.ScheduledAt = scheduledAt
	appointment.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, appointment, entities.AppointmentEventRescheduled, reason)
	return appointment, nil
}

// Cancel terminates an appointment with an optional reason. Cancelling an
// already-cancelled appointment is treated as success.
func (s *AppointmentService) Cancel(ctx context.Context, id, reason string) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appointment.Status == entities.AppointmentStatusCancelled {
		return nil
	}
	if appointment.Status == entities.AppointmentStatusCompleted {
		return apperrors.NewConflictError("appointment is completed and cannot be cancelled")
	}

	externalID := ""
	if appointment.AgendaEventID != nil {
		externalID = *appointment.AgendaEventID
	}
	if err := s.provider.CancelAppointment(ctx, externalID, reason); err != nil {
		return err
	}

	appointment.Status = entities.AppointmentStatusCancelled
	appointment.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, appointment); err != nil {
		return err
	}

	s.afterMutation(ctx, appointment, entities.AppointmentEventCancelled, reason)
	return nil
}

// GetByID retrieves an appointment.
func (s *AppointmentService) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByPatient retrieves a patient's appointments.
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID, filter)
}

// GetAvailability returns the professional's availability window.
func (s *AppointmentService) GetAvailability(ctx context.Context, professionalID string, from scheduling.Date, numDays int) ([]entities.AvailabilityDay, error) {
	return s.availability.FetchWindow(ctx, professionalID, from, numDays)
}

// afterMutation runs the non-fatal side effects of an agenda change: cache
// invalidation, event publication and patient notification. Failures are
// logged and never propagate.
func (s *AppointmentService) afterMutation(ctx context.Context, appointment *entities.Appointment, eventType entities.AppointmentEventType, reason string) {
	if s.availability != nil {
		s.availability.Invalidate(ctx, appointment.ProfessionalID)
	}

	if s.eventBus != nil {
		event := &entities.AppointmentEvent{
			ID:             uuid.New().String(),
			Type:           eventType,
			AppointmentID:  appointment.ID,
			ProfessionalID: appointment.ProfessionalID,
			PatientID:      appointment.PatientID,
			ScheduledAt:    appointment.ScheduledAt,
			Reason:         reason,
			OccurredAt:     time.Now(),
		}
		if err := s.eventBus.Publish(ctx, providers.GetProfessionalChannel(appointment.ProfessionalID), event); err != nil {
			log.Warn().Err(err).Str("appointment_id", appointment.ID).Msg("failed to publish appointment event")
		}
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyAppointmentChange(ctx, appointment, eventType); err != nil {
			log.Warn().Err(err).Str("appointment_id", appointment.ID).Msg("failed to send appointment notification")
		}
	}
}
