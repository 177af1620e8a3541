package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/clients/postgres"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

var appointmentColumns = []interface{}{
	"id", "patient_id", "professional_id", "clinic_id", "procedure_id",
	"scheduled_at", "duration_minutes", "status", "patient_name",
	"patient_phone", "notes", "agenda_event_id", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":               appointment.ID,
		"patient_id":       appointment.PatientID,
		"professional_id":  appointment.ProfessionalID,
		"clinic_id":        appointment.ClinicID,
		"procedure_id":     appointment.ProcedureID,
		"scheduled_at":     appointment.ScheduledAt,
		"duration_minutes": appointment.DurationMinutes,
		"status":           appointment.Status,
		"patient_name":     appointment.PatientName,
		"patient_phone":    appointment.PatientPhone,
		"notes":            appointment.Notes,
		"agenda_event_id":  appointment.AgendaEventID,
		"created_at":       appointment.CreatedAt,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	appointment, err := scanAppointment(row.Scan)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// Update persists the mutable fields of an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	appointment.UpdatedAt = time.Now()

	record := goqu.Record{
		"scheduled_at":    appointment.ScheduledAt,
		"status":          appointment.Status,
		"patient_name":    appointment.PatientName,
		"patient_phone":   appointment.PatientPhone,
		"notes":           appointment.Notes,
		"agenda_event_id": appointment.AgendaEventID,
		"updated_at":      appointment.UpdatedAt,
	}

	query, args, err := a.db.Update("appointments").
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", appointment.ID))
	}

	return nil
}

// ListByPatient retrieves appointments for a patient
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"patient_id": patientID}, filter)
}

// ListByProfessional retrieves appointments for a professional
func (a *AppointmentAdapter) ListByProfessional(ctx context.Context, professionalID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"professional_id": professionalID}, filter)
}

func (a *AppointmentAdapter) list(ctx context.Context, owner goqu.Ex, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(owner)

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}

	if filter.From != nil {
		ds = ds.Where(goqu.C("scheduled_at").Gte(*filter.From))
	}

	if filter.To != nil {
		ds = ds.Where(goqu.C("scheduled_at").Lte(*filter.To))
	}

	ds = ds.Order(goqu.I("scheduled_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}

func scanAppointment(scan func(dest ...interface{}) error) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var clinicID, procedureID, agendaEventID sql.NullString
	var patientPhone, notes sql.NullString

	err := scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.ProfessionalID,
		&clinicID,
		&procedureID,
		&appointment.ScheduledAt,
		&appointment.DurationMinutes,
		&appointment.Status,
		&appointment.PatientName,
		&patientPhone,
		&notes,
		&agendaEventID,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clinicID.Valid {
		appointment.ClinicID = &clinicID.String
	}
	if procedureID.Valid {
		appointment.ProcedureID = &procedureID.String
	}
	if agendaEventID.Valid {
		appointment.AgendaEventID = &agendaEventID.String
	}
	appointment.PatientPhone = patientPhone.String
	appointment.Notes = notes.String

	return appointment, nil
}
