package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/clients/postgres"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

var professionalColumns = []interface{}{
	"id", "name", "specialty", "clinic_id", "agenda_external_id",
	"is_active", "created_at", "updated_at",
}

// ProfessionalAdapter implements the ProfessionalRepository interface
type ProfessionalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfessionalAdapter creates a new professional adapter
func NewProfessionalAdapter(client *postgres.Client) repositories.ProfessionalRepository {
	return &ProfessionalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a professional by ID
func (a *ProfessionalAdapter) GetByID(ctx context.Context, id string) (*entities.Professional, error) {
	query, args, err := a.db.Select(professionalColumns...).
		From("professionals").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	professional, err := scanProfessional(a.client.DB().QueryRowContext(ctx, query, args...).Scan)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("professional with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get professional", err)
	}

	return professional, nil
}

// List retrieves professionals with filters
func (a *ProfessionalAdapter) List(ctx context.Context, filter repositories.ProfessionalFilter) ([]*entities.Professional, error) {
	ds := a.db.Select(professionalColumns...).From("professionals")

	if filter.Specialty != "" {
		ds = ds.Where(goqu.Ex{"specialty": filter.Specialty})
	}

	if filter.ClinicID != "" {
		ds = ds.Where(goqu.Ex{"clinic_id": filter.ClinicID})
	}

	if filter.IsActive != nil {
		ds = ds.Where(goqu.Ex{"is_active": *filter.IsActive})
	}

	ds = ds.Order(goqu.I("name").Asc())

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
		return nil, apperrors.NewInternalError("failed to list professionals", err)
	}
	defer rows.Close()

	var professionals []*entities.Professional
	for rows.Next() {
		professional, err := scanProfessional(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan professional", err)
		}
		professionals = append(professionals, professional)
	}

	return professionals, rows.Err()
}

func scanProfessional(scan func(dest ...interface{}) error) (*entities.Professional, error) {
	professional := &entities.Professional{}
	var clinicID, agendaExternalID sql.NullString

	err := scan(
		&professional.ID,
		&professional.Name,
		&professional.Specialty,
		&clinicID,
		&agendaExternalID,
		&professional.IsActive,
		&professional.CreatedAt,
		&professional.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clinicID.Valid {
		professional.ClinicID = &clinicID.String
	}
	professional.AgendaExternalID = agendaExternalID.String

	return professional, nil
}
