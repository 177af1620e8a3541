package services

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// WizardStep identifies one step of a wizard's fixed, ordered sequence.
type WizardStep string

// StepDefinition couples a step with its local validation gate. Validate
// returns field name -> message for every missing or invalid required field;
// an empty result passes the gate. Checks are local only: no server
// round-trip happens before final submission.
type StepDefinition struct {
	Name     WizardStep
	Validate func() map[string]string
}

// Submitter performs the final creation request of a wizard and returns the
// identifier of the newly created resource.
type Submitter func(ctx context.Context) (string, error)

// Wizard is a linear multi-step data-collection state machine: next()
// advances one step behind a validation gate, previous() always succeeds,
// steps are never skipped. A wizard instance belongs to exactly one booking
// session and is not safe for concurrent use.
type Wizard struct {
	session  entities.Session
	steps    []StepDefinition
	current  int
	submit   Submitter
	reset    func()
	inFlight bool
}

// NewWizard creates a wizard positioned on the first step. reset is invoked
// after a successful submit to discard the draft.
func NewWizard(session entities.Session, steps []StepDefinition, submit Submitter, reset func()) (*Wizard, error) {
	if !session.IsValid() {
		return nil, apperrors.NewUnauthorizedError("session is not resolved")
	}
	if len(steps) == 0 {
		return nil, apperrors.NewValidationError("wizard requires at least one step")
	}
	if submit == nil {
		return nil, apperrors.NewValidationError("wizard requires a submitter")
	}
	return &Wizard{
		session: session,
		steps:   steps,
		submit:  submit,
		reset:   reset,
	}, nil
}

// CurrentStep returns the name of the active step.
func (w *Wizard) CurrentStep() WizardStep {
	return w.steps[w.current].Name
}

// StepIndex returns the zero-based index of the active step.
func (w *Wizard) StepIndex() int {
	return w.current
}

// Steps returns the ordered step names.
func (w *Wizard) Steps() []WizardStep {
	names := make([]WizardStep, len(w.steps))
	for i, s := range w.steps {
		names[i] = s.Name
	}
	return names
}

// CanGoNext reports whether the active step's validation gate passes.
func (w *Wizard) CanGoNext() bool {
	return len(w.validateStep(w.current)) == 0
}

// Next advances one step. It fails, leaving the step unchanged, when the
// active step has missing or invalid required fields or the wizard is
// already on its terminal step.
func (w *Wizard) Next() error {
	if fields := w.validateStep(w.current); len(fields) > 0 {
		return apperrors.NewFieldValidationError("current step is incomplete", fields)
	}
	if w.current == len(w.steps)-1 {
		return apperrors.NewValidationError("already on the last step")
	}
	w.current++
	return nil
}

// Previous moves one step back. Going backward never re-validates and is a
// no-op on the first step.
func (w *Wizard) Previous() {
	if w.current > 0 {
		w.current--
	}
}

// Submit performs the final full-draft validation, re-checking every
// required field across all steps, then issues the creation request. On
// success the draft and step pointer are reset and the new resource
// identifier is returned.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	if w.current != len(w.steps)-1 {
		return "", apperrors.NewValidationError("submit is only allowed on the last step")
	}
	if w.inFlight {
		return "", apperrors.NewValidationError("a submission is already in progress")
	}

	fields := make(map[string]string)
	for i := range w.steps {
		for field, message := range w.validateStep(i) {
			fields[field] = message
		}
	}
	if len(fields) > 0 {
		return "", apperrors.NewFieldValidationError("draft has missing fields", fields)
	}

	w.inFlight = true
	id, err := w.submit(ctx)
	w.inFlight = false
	if err != nil {
		return "", err
	}

	w.current = 0
	if w.reset != nil {
		w.reset()
	}
	return id, nil
}

func (w *Wizard) validateStep(i int) map[string]string {
	if w.steps[i].Validate == nil {
		return nil
	}
	return w.steps[i].Validate()
}
