package services

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// Booking wizard steps, in order.
const (
	StepPatientSelect   WizardStep = "patient"
	StepProcedureSelect WizardStep = "procedure"
	StepSchedule        WizardStep = "schedule"
	StepConfirm         WizardStep = "confirm"
)

// BookingWizard drives the new-appointment flow: patient, procedure,
// date/time, confirmation. It owns a BookingDraft exclusively for the
// duration of one booking session and keeps the draft's end time derived
// from start time plus procedure duration, never independently edited.
type BookingWizard struct {
	wizard        *Wizard
	session       entities.Session
	appointments  *AppointmentService
	procedureRepo repositories.ProcedureRepository
	draft         entities.BookingDraft
	procedure     *entities.Procedure
	result        *entities.Appointment
}

// NewBookingWizard creates a wizard for one booking session.
func NewBookingWizard(session entities.Session, appointments *AppointmentService, procedureRepo repositories.ProcedureRepository) (*BookingWizard, error) {
	b := &BookingWizard{
		session:       session,
		appointments:  appointments,
		procedureRepo: procedureRepo,
	}

	steps := []StepDefinition{
		{Name: StepPatientSelect, Validate: b.validatePatient},
		{Name: StepProcedureSelect, Validate: b.validateProcedure},
		{Name: StepSchedule, Validate: b.validateSchedule},
		{Name: StepConfirm},
	}

	wizard, err := NewWizard(session, steps, b.create, b.resetDraft)
	if err != nil {
		return nil, err
	}
	b.wizard = wizard
	return b, nil
}

// CurrentStep returns the active step.
func (b *BookingWizard) CurrentStep() WizardStep { return b.wizard.CurrentStep() }

// CanGoNext reports whether the active step is complete.
func (b *BookingWizard) CanGoNext() bool { return b.wizard.CanGoNext() }

// Next advances one step behind the validation gate.
func (b *BookingWizard) Next() error { return b.wizard.Next() }

// Previous moves one step back, always.
func (b *BookingWizard) Previous() { b.wizard.Previous() }

// Draft returns a read-only copy of the accumulated draft.
func (b *BookingWizard) Draft() entities.BookingDraft { return b.draft }

// Result returns the appointment created by the last successful submit.
func (b *BookingWizard) Result() *entities.Appointment { return b.result }

// SetPatient records the patient the appointment is for.
func (b *BookingWizard) SetPatient(patientID, name, phone string) {
	b.draft.PatientID = patientID
	b.draft.PatientName = name
	b.draft.PatientPhone = phone
}

// SetProfessional records the professional being booked.
func (b *BookingWizard) SetProfessional(professionalID string) {
	b.draft.ProfessionalID = professionalID
}

// SetProcedure loads and pins the procedure for this session. The
// procedure's duration, price and buffer are immutable once loaded; the
// draft's end time is re-derived immediately.
func (b *BookingWizard) SetProcedure(ctx context.Context, procedureID string) error {
	procedure, err := b.procedureRepo.GetByID(ctx, procedureID)
	if err != nil {
		return err
	}
	if !procedure.IsActive {
		return apperrors.NewValidationError("procedure is no longer offered")
	}
	b.procedure = procedure
	b.draft.ProcedureID = procedure.ID
	b.deriveEndTime()
	return nil
}

// SetSchedule records the chosen date and slot start time; the end time is
// re-derived from the pinned procedure.
func (b *BookingWizard) SetSchedule(date, startTime string) {
	b.draft.Date = date
	b.draft.StartTime = startTime
	b.deriveEndTime()
}

// SetNotes records free-text notes.
func (b *BookingWizard) SetNotes(notes string) {
	b.draft.Notes = notes
}

// WrapsPastMidnight reports whether the derived end time falls on the next
// day. The stored times stay unsigned time-of-day either way.
func (b *BookingWizard) WrapsPastMidnight() bool {
	if b.procedure == nil || b.draft.StartTime == "" {
		return false
	}
	return scheduling.WrapsPastMidnight(b.draft.StartTime, b.procedure.DurationMinutes)
}

// Submit performs the final full-draft validation and creates the
// appointment, returning its identifier for post-booking navigation.
func (b *BookingWizard) Submit(ctx context.Context) (string, error) {
	return b.wizard.Submit(ctx)
}

func (b *BookingWizard) deriveEndTime() {
	if b.procedure == nil || b.draft.StartTime == "" {
		b.draft.EndTime = ""
		return
	}
	b.draft.EndTime = scheduling.AddMinutes(b.draft.StartTime, b.procedure.DurationMinutes)
}

func (b *BookingWizard) validatePatient() map[string]string {
	fields := make(map[string]string)
	if b.draft.PatientID == "" {
		fields["patient_id"] = "patient is required"
	}
	if b.draft.PatientName == "" {
		fields["patient_name"] = "patient name is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (b *BookingWizard) validateProcedure() map[string]string {
	if b.draft.ProcedureID == "" || b.procedure == nil {
		return map[string]string{"procedure_id": "procedure is required"}
	}
	return nil
}

func (b *BookingWizard) validateSchedule() map[string]string {
	fields := make(map[string]string)
	if b.draft.ProfessionalID == "" {
		fields["professional_id"] = "professional is required"
	}
	if b.draft.Date == "" {
		fields["date"] = "date is required"
	} else if _, err := scheduling.ParseDate(b.draft.Date); err != nil {
		fields["date"] = "date must be YYYY-MM-DD"
	}
	if b.draft.StartTime == "" {
		fields["start_time"] = "start time is required"
	} else if _, ok := scheduling.ParseClock(b.draft.StartTime); !ok {
		fields["start_time"] = "start time must be HH:MM"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (b *BookingWizard) create(ctx context.Context) (string, error) {
	appointment, err := b.appointments.CreateFromDraft(ctx, b.session, &b.draft)
	if err != nil {
		return "", err
	}
	b.result = appointment
	return appointment.ID, nil
}

func (b *BookingWizard) resetDraft() {
	b.draft = entities.BookingDraft{}
	b.procedure = nil
}
