package services

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

// Vacancy (job posting) wizard steps, in order. The clinic-side flow
// collects more fields than the booking flow, spread over seven steps.
const (
	StepVacancyBasics       WizardStep = "basics"
	StepVacancySpecialty    WizardStep = "specialty"
	StepVacancyRequirements WizardStep = "requirements"
	StepVacancySchedule     WizardStep = "vacancy_schedule"
	StepVacancyLocation     WizardStep = "location"
	StepVacancyCompensation WizardStep = "compensation"
	StepVacancyConfirm      WizardStep = "vacancy_confirm"
)

// VacancyCreator performs the final creation request for a vacancy and
// returns the new posting's identifier. Vacancy persistence itself lives
// outside the scheduling engine.
type VacancyCreator func(ctx context.Context, draft *entities.VacancyDraft) (string, error)

// VacancyWizard drives the clinic's job-posting flow through the same
// linear step machine as the booking wizard.
type VacancyWizard struct {
	wizard *Wizard
	draft  entities.VacancyDraft
}

// NewVacancyWizard creates a wizard for one posting session.
func NewVacancyWizard(session entities.Session, create VacancyCreator) (*VacancyWizard, error) {
	v := &VacancyWizard{}

	steps := []StepDefinition{
		{Name: StepVacancyBasics, Validate: v.validateBasics},
		{Name: StepVacancySpecialty, Validate: v.validateSpecialty},
		{Name: StepVacancyRequirements, Validate: v.validateRequirements},
		{Name: StepVacancySchedule, Validate: v.validateSchedule},
		{Name: StepVacancyLocation, Validate: v.validateLocation},
		{Name: StepVacancyCompensation, Validate: v.validateCompensation},
		{Name: StepVacancyConfirm},
	}

	wizard, err := NewWizard(session, steps, func(ctx context.Context) (string, error) {
		return create(ctx, &v.draft)
	}, v.resetDraft)
	if err != nil {
		return nil, err
	}
	v.wizard = wizard
	return v, nil
}

// CurrentStep returns the active step.
func (v *VacancyWizard) CurrentStep() WizardStep { return v.wizard.CurrentStep() }

// CanGoNext reports whether the active step is complete.
func (v *VacancyWizard) CanGoNext() bool { return v.wizard.CanGoNext() }

// Next advances one step behind the validation gate.
func (v *VacancyWizard) Next() error { return v.wizard.Next() }

// Previous moves one step back, always.
func (v *VacancyWizard) Previous() { v.wizard.Previous() }

// Draft returns a read-only copy of the accumulated draft.
func (v *VacancyWizard) Draft() entities.VacancyDraft { return v.draft }

// Patch merges non-empty fields from the given draft into the accumulator.
func (v *VacancyWizard) Patch(update entities.VacancyDraft) {
	if update.Title != "" {
		v.draft.Title = update.Title
	}
	if update.Specialty != "" {
		v.draft.Specialty = update.Specialty
	}
	if update.Description != "" {
		v.draft.Description = update.Description
	}
	if update.Requirements != "" {
		v.draft.Requirements = update.Requirements
	}
	if update.WeekdaySlots != "" {
		v.draft.WeekdaySlots = update.WeekdaySlots
	}
	if update.StartDate != "" {
		v.draft.StartDate = update.StartDate
	}
	if update.City != "" {
		v.draft.City = update.City
	}
	if update.State != "" {
		v.draft.State = update.State
	}
	if update.ClinicID != "" {
		v.draft.ClinicID = update.ClinicID
	}
	if update.CompensationBR > 0 {
		v.draft.CompensationBR = update.CompensationBR
	}
}

// Submit performs the final full-draft validation and creates the posting.
func (v *VacancyWizard) Submit(ctx context.Context) (string, error) {
	return v.wizard.Submit(ctx)
}

func (v *VacancyWizard) validateBasics() map[string]string {
	fields := make(map[string]string)
	if v.draft.Title == "" {
		fields["title"] = "title is required"
	}
	if v.draft.Description == "" {
		fields["description"] = "description is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (v *VacancyWizard) validateSpecialty() map[string]string {
	if v.draft.Specialty == "" {
		return map[string]string{"specialty": "specialty is required"}
	}
	return nil
}

func (v *VacancyWizard) validateRequirements() map[string]string {
	if v.draft.Requirements == "" {
		return map[string]string{"requirements": "requirements are required"}
	}
	return nil
}

func (v *VacancyWizard) validateSchedule() map[string]string {
	fields := make(map[string]string)
	if v.draft.WeekdaySlots == "" {
		fields["weekday_slots"] = "work schedule is required"
	}
	if v.draft.StartDate == "" {
		fields["start_date"] = "start date is required"
	} else if _, err := scheduling.ParseDate(v.draft.StartDate); err != nil {
		fields["start_date"] = "start date must be YYYY-MM-DD"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (v *VacancyWizard) validateLocation() map[string]string {
	fields := make(map[string]string)
	if v.draft.City == "" {
		fields["city"] = "city is required"
	}
	if v.draft.State == "" {
		fields["state"] = "state is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (v *VacancyWizard) validateCompensation() map[string]string {
	if v.draft.CompensationBR <= 0 {
		return map[string]string{"compensation_brl": "compensation must be positive"}
	}
	return nil
}

func (v *VacancyWizard) resetDraft() {
	v.draft = entities.VacancyDraft{}
}
