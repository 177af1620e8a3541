package repositories

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

// ProcedureRepository defines the interface for procedure data operations
type ProcedureRepository interface {
	// Create creates a new procedure
	Create(ctx context.Context, procedure *entities.Procedure) error

	// GetByID retrieves a procedure by ID
	GetByID(ctx context.Context, id string) (*entities.Procedure, error)

	// Update updates a procedure
	Update(ctx context.Context, procedure *entities.Procedure) error

	// Delete deletes a procedure
	Delete(ctx context.Context, id string) error

	// ListByProfessional retrieves the procedures offered by a professional
	ListByProfessional(ctx context.Context, professionalID string, filter ProcedureFilter) ([]*entities.Procedure, error)
}

// ProcedureFilter defines filters for listing procedures
type ProcedureFilter struct {
	IsActive *bool
	Limit    int
	Offset   int
}
