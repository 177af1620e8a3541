package repositories

import (
	"context"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
)

// ProfessionalRepository defines the interface for professional data operations
type ProfessionalRepository interface {
	// GetByID retrieves a professional by ID
	GetByID(ctx context.Context, id string) (*entities.Professional, error)

	// List retrieves professionals with filters
	List(ctx context.Context, filter ProfessionalFilter) ([]*entities.Professional, error)
}

// ProfessionalFilter defines filters for listing professionals
type ProfessionalFilter struct {
	Specialty string
	ClinicID  string
	IsActive  *bool
	Limit     int
	Offset    int
}
