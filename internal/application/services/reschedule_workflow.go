package services

import (
	"context"
	"time"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// WorkflowState represents the reschedule/cancel workflow's current phase
type WorkflowState string

const (
	WorkflowIdle          WorkflowState = "idle"
	WorkflowSelectingSlot WorkflowState = "selecting_slot"
	WorkflowConfirming    WorkflowState = "confirming"
	WorkflowSubmitting    WorkflowState = "submitting"
)

// rescheduleWindowDays is how far ahead availability is fetched when a
// reschedule starts, beginning tomorrow.
const rescheduleWindowDays = 30

// RescheduleWorkflow moves a single existing appointment to a new slot, or
// terminates it with a reason. One instance handles one appointment at a
// time; editing a second appointment requires Close(), which discards all
// workflow-local state. Instances are session-owned and not safe for
// concurrent use beyond the in-flight guard.
type RescheduleWorkflow struct {
	session      entities.Session
	appointments *AppointmentService
	availability *AvailabilityService
	now          func() time.Time

	state        WorkflowState
	appointment  *entities.Appointment
	view         *scheduling.MonthView
	selector     *scheduling.SlotSelector
	cancelReason string
	lastError    string
	inFlight     bool
	generation   int
}

// NewRescheduleWorkflow creates an idle workflow. now is injectable so tests
// can pin "today".
func NewRescheduleWorkflow(session entities.Session, appointments *AppointmentService, availability *AvailabilityService, now func() time.Time) (*RescheduleWorkflow, error) {
	if !session.IsValid() {
		return nil, apperrors.NewUnauthorizedError("session is not resolved")
	}
	if now == nil {
		now = time.Now
	}
	return &RescheduleWorkflow{
		session:      session,
		appointments: appointments,
		availability: availability,
		now:          now,
		state:        WorkflowIdle,
	}, nil
}

// State returns the workflow's current phase.
func (w *RescheduleWorkflow) State() WorkflowState { return w.state }

// LastError returns the user-facing message of the most recent failure.
func (w *RescheduleWorkflow) LastError() string { return w.lastError }

// Appointment returns the appointment being edited, nil when idle.
func (w *RescheduleWorkflow) Appointment() *entities.Appointment { return w.appointment }

// BeginReschedule loads the appointment and its professional's upcoming
// availability, seeding the calendar and slot selector. The first day with
// any open slot is auto-selected so the view is never empty.
func (w *RescheduleWorkflow) BeginReschedule(ctx context.Context, appointmentID string) error {
	if w.state != WorkflowIdle {
		return apperrors.NewValidationError("another workflow is already active; close it first")
	}

	appointment, err := w.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		w.lastError = "appointment not found"
		return err
	}
	if !appointment.CanModify() {
		w.lastError = "appointment can no longer be changed"
		return apperrors.NewConflictError("appointment is in a terminal state")
	}

	today := scheduling.DateOf(w.now())
	generation := w.nextGeneration()
	days, err := w.availability.FetchWindow(ctx, appointment.ProfessionalID, today.AddDays(1), rescheduleWindowDays)
	if err != nil {
		w.lastError = "could not load availability"
		return err
	}
	if generation != w.generation {
		// Workflow was closed while the fetch was outstanding.
		return nil
	}

	w.appointment = appointment
	w.view = scheduling.NewMonthView(today)
	w.selector = scheduling.NewSlotSelector(today)
	w.selector.SetAvailability(days)
	if first := w.selector.FirstAvailableDate(); first != "" {
		w.selector.SelectDate(first)
	}
	w.lastError = ""
	w.state = WorkflowSelectingSlot
	return nil
}

// Cells returns the calendar grid of the viewed month.
func (w *RescheduleWorkflow) Cells() []scheduling.CalendarCell {
	if w.state != WorkflowSelectingSlot {
		return nil
	}
	return w.view.Cells(w.days())
}

// GoToPreviousMonth pages the calendar back within its bounds.
func (w *RescheduleWorkflow) GoToPreviousMonth() {
	if w.state == WorkflowSelectingSlot {
		w.view.GoToPreviousMonth()
	}
}

// GoToNextMonth pages the calendar forward within its bounds.
func (w *RescheduleWorkflow) GoToNextMonth() {
	if w.state == WorkflowSelectingSlot {
		w.view.GoToNextMonth()
	}
}

// SelectDate makes a day active in the slot selector.
func (w *RescheduleWorkflow) SelectDate(date string) {
	if w.state == WorkflowSelectingSlot {
		w.selector.SelectDate(date)
	}
}

// SetPeriod applies the morning/afternoon sub-filter.
func (w *RescheduleWorkflow) SetPeriod(p scheduling.Period) {
	if w.state == WorkflowSelectingSlot {
		w.selector.SetPeriod(p)
	}
}

// AvailableSlots returns the selectable slots of the active day.
func (w *RescheduleWorkflow) AvailableSlots() []entities.Slot {
	if w.state != WorkflowSelectingSlot {
		return nil
	}
	return w.selector.AvailableSlots()
}

// SelectSlot stores the chosen slot.
func (w *RescheduleWorkflow) SelectSlot(t string) error {
	if w.state != WorkflowSelectingSlot {
		return apperrors.NewValidationError("no reschedule in progress")
	}
	return w.selector.SelectSlot(t)
}

// SelectedDate returns the active date.
func (w *RescheduleWorkflow) SelectedDate() string {
	if w.selector == nil {
		return ""
	}
	return w.selector.SelectedDate()
}

// SelectedSlot returns the chosen slot.
func (w *RescheduleWorkflow) SelectedSlot() *entities.Slot {
	if w.selector == nil {
		return nil
	}
	return w.selector.SelectedSlot()
}

// ConfirmReschedule submits the move to the new slot. It requires both a
// selected date and slot; without them no network call is issued and the
// workflow stays in SelectingSlot. On failure state reverts with the
// selection retained, except availability conflicts, which clear the
// selection and re-fetch so the user picks from fresh slots.
func (w *RescheduleWorkflow) ConfirmReschedule(ctx context.Context, reason string) error {
	if w.state != WorkflowSelectingSlot {
		return apperrors.NewValidationError("no reschedule in progress")
	}
	if w.inFlight {
		return apperrors.NewValidationError("a request is already in progress")
	}
	slot := w.selector.SelectedSlot()
	if w.selector.SelectedDate() == "" || slot == nil {
		w.lastError = "select a slot"
		return apperrors.NewValidationError("select a slot")
	}

	newStart := ComposeStartTimestamp(w.selector.SelectedDate(), slot.Time)
	w.state = WorkflowSubmitting
	w.inFlight = true
	updated, err := w.appointments.Reschedule(ctx, w.appointment.ID, newStart, reason)
	w.inFlight = false

	if err != nil {
		w.state = WorkflowSelectingSlot
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			w.lastError = "that slot is no longer available, please pick another"
			w.selector.ClearSelection()
			w.refreshAvailability(ctx)
		} else {
			w.lastError = "could not reschedule, please try again"
		}
		return err
	}

	w.appointment = updated
	w.lastError = ""
	w.state = WorkflowIdle
	return nil
}

// BeginCancel opens the cancellation confirmation for an appointment.
func (w *RescheduleWorkflow) BeginCancel(ctx context.Context, appointmentID string) error {
	if w.state != WorkflowIdle {
		return apperrors.NewValidationError("another workflow is already active; close it first")
	}

	appointment, err := w.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		w.lastError = "appointment not found"
		return err
	}
	if appointment.Status == entities.AppointmentStatusCompleted {
		w.lastError = "appointment can no longer be changed"
		return apperrors.NewConflictError("appointment is completed")
	}

	w.appointment = appointment
	w.cancelReason = ""
	w.lastError = ""
	w.state = WorkflowConfirming
	return nil
}

// SetCancelReason records the optional free-text reason.
func (w *RescheduleWorkflow) SetCancelReason(reason string) {
	if w.state == WorkflowConfirming {
		w.cancelReason = reason
	}
}

// ConfirmCancel submits the cancellation. Success transitions the local
// appointment to cancelled; failure returns to Confirming with the reason
// retained.
func (w *RescheduleWorkflow) ConfirmCancel(ctx context.Context) error {
	if w.state != WorkflowConfirming {
		return apperrors.NewValidationError("no cancellation in progress")
	}
	if w.inFlight {
		return apperrors.NewValidationError("a request is already in progress")
	}

	w.state = WorkflowSubmitting
	w.inFlight = true
	err := w.appointments.Cancel(ctx, w.appointment.ID, w.cancelReason)
	w.inFlight = false

	if err != nil {
		w.state = WorkflowConfirming
		w.lastError = "could not cancel, please try again"
		return err
	}

	w.appointment.Status = entities.AppointmentStatusCancelled
	w.lastError = ""
	w.state = WorkflowIdle
	return nil
}

// Close discards all workflow-local state, returning to Idle. Required
// before editing a different appointment.
func (w *RescheduleWorkflow) Close() {
	w.nextGeneration()
	w.state = WorkflowIdle
	w.appointment = nil
	w.view = nil
	w.selector = nil
	w.cancelReason = ""
	w.lastError = ""
	w.inFlight = false
}

func (w *RescheduleWorkflow) refreshAvailability(ctx context.Context) {
	// The conflict proves the cached window is stale.
	w.availability.Invalidate(ctx, w.appointment.ProfessionalID)

	today := scheduling.DateOf(w.now())
	generation := w.generation
	days, err := w.availability.FetchWindow(ctx, w.appointment.ProfessionalID, today.AddDays(1), rescheduleWindowDays)
	if err != nil || generation != w.generation {
		return
	}
	w.selector.SetAvailability(days)
}

// days rebuilds the availability list the selector currently holds for the
// calendar projection.
func (w *RescheduleWorkflow) days() []entities.AvailabilityDay {
	if w.selector == nil {
		return nil
	}
	return w.selector.Days()
}

func (w *RescheduleWorkflow) nextGeneration() int {
	w.generation++
	return w.generation
}
