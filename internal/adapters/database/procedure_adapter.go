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

var procedureColumns = []interface{}{
	"id", "professional_id", "name", "duration_minutes", "price",
	"color", "buffer_minutes", "is_active", "created_at", "updated_at",
}

// ProcedureAdapter implements the ProcedureRepository interface
type ProcedureAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcedureAdapter creates a new procedure adapter
func NewProcedureAdapter(client *postgres.Client) repositories.ProcedureRepository {
	return &ProcedureAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new procedure
func (a *ProcedureAdapter) Create(ctx context.Context, procedure *entities.Procedure) error {
	record := goqu.Record{
		"id":               procedure.ID,
		"professional_id":  procedure.ProfessionalID,
		"name":             procedure.Name,
		"duration_minutes": procedure.DurationMinutes,
		"price":            procedure.Price,
		"color":            procedure.Color,
		"buffer_minutes":   procedure.BufferMinutes,
		"is_active":        procedure.IsActive,
		"created_at":       procedure.CreatedAt,
		"updated_at":       procedure.UpdatedAt,
	}

	query, args, err := a.db.Insert("procedures").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create procedure", err)
	}

	return nil
}

// GetByID retrieves a procedure by ID
func (a *ProcedureAdapter) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	query, args, err := a.db.Select(procedureColumns...).
		From("procedures").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	procedure := &entities.Procedure{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&procedure.ID,
		&procedure.ProfessionalID,
		&procedure.Name,
		&procedure.DurationMinutes,
		&procedure.Price,
		&procedure.Color,
		&procedure.BufferMinutes,
		&procedure.IsActive,
		&procedure.CreatedAt,
		&procedure.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get procedure", err)
	}

	return procedure, nil
}

// Update updates a procedure
func (a *ProcedureAdapter) Update(ctx context.Context, procedure *entities.Procedure) error {
	procedure.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":             procedure.Name,
		"duration_minutes": procedure.DurationMinutes,
		"price":            procedure.Price,
		"color":            procedure.Color,
		"buffer_minutes":   procedure.BufferMinutes,
		"is_active":        procedure.IsActive,
		"updated_at":       procedure.UpdatedAt,
	}

	query, args, err := a.db.Update("procedures").
		Set(record).
		Where(goqu.Ex{"id": procedure.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update procedure", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", procedure.ID))
	}

	return nil
}

// Delete removes a procedure. Appointments keep their own duration
// snapshot, so deletion never rewrites booking history.
func (a *ProcedureAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("procedures").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete procedure", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", id))
	}

	return nil
}

// ListByProfessional retrieves the procedures offered by a professional
func (a *ProcedureAdapter) ListByProfessional(ctx context.Context, professionalID string, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	ds := a.db.Select(procedureColumns...).
		From("procedures").
		Where(goqu.Ex{"professional_id": professionalID})

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
		return nil, apperrors.NewInternalError("failed to list procedures", err)
	}
	defer rows.Close()

	var procedures []*entities.Procedure
	for rows.Next() {
		procedure := &entities.Procedure{}
		err := rows.Scan(
			&procedure.ID,
			&procedure.ProfessionalID,
			&procedure.Name,
			&procedure.DurationMinutes,
			&procedure.Price,
			&procedure.Color,
			&procedure.BufferMinutes,
			&procedure.IsActive,
			&procedure.CreatedAt,
			&procedure.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan procedure", err)
		}
		procedures = append(procedures, procedure)
	}

	return procedures, rows.Err()
}
