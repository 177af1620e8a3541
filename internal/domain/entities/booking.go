package entities

// FieldError represents a field-level validation failure surfaced to the user
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BookingDraft is the in-progress, unsaved state of a new appointment being
// composed by the booking wizard. It is a mutable accumulator merged
// field-by-field from user input until submission, owned exclusively by one
// wizard instance and discarded on cancel or successful submit.
type BookingDraft struct {
	PatientID      string `json:"patient_id"`
	PatientName    string `json:"patient_name"`
	PatientPhone   string `json:"patient_phone"`
	ProfessionalID string `json:"professional_id"`
	ProcedureID    string `json:"procedure_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Notes          string `json:"notes"`
}

// VacancyDraft is the wizard accumulator for the job-posting (vaga) flow,
// collected over a longer multi-field step sequence than the booking draft.
type VacancyDraft struct {
	Title          string  `json:"title"`
	Specialty      string  `json:"specialty"`
	Description    string  `json:"description"`
	Requirements   string  `json:"requirements"`
	WeekdaySlots   string  `json:"weekday_slots"`
	StartDate      string  `json:"start_date"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ClinicID       string  `json:"clinic_id"`
	CompensationBR float64 `json:"compensation_brl"`
}
