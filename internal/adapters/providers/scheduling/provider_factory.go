package scheduling

import (
	"context"
	"errors"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	domsched "github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	"github.com/rbmarquez/DoctorQ-sub003/pkg/config"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

// NewSchedulingProvider creates a provider from the agenda configuration.
// Without credentials the mock serves everything; with credentials the
// agenda API is primary, optionally falling back to the mock for reads.
func NewSchedulingProvider(cfg config.AgendaConfig) providers.SchedulingProvider {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return NewMockAdapter()
	}

	primary := NewAgendaAdapter(cfg.BaseURL, cfg.APIKey)
	if !cfg.AllowMockFallback {
		return primary
	}

	return &FallbackProvider{
		primary:  primary,
		fallback: NewMockAdapter(),
	}
}

// FallbackProvider wraps the agenda API with a mock fallback for
// availability reads. Writes never fall back: a booking that only exists
// in a mock would be a phantom appointment.
type FallbackProvider struct {
	primary  providers.SchedulingProvider
	fallback providers.SchedulingProvider
}

func (p *FallbackProvider) FetchAvailability(ctx context.Context, professionalID string, from domsched.Date, numDays int) ([]entities.AvailabilityDay, error) {
	if p.primary == nil {
		if p.fallback != nil {
			return p.fallback.FetchAvailability(ctx, professionalID, from, numDays)
		}
		return nil, errors.New("scheduling provider not configured")
	}

	days, err := p.primary.FetchAvailability(ctx, professionalID, from, numDays)
	if err != nil && p.fallback != nil && apperrors.IsType(err, apperrors.ErrorTypeExternal) {
		return p.fallback.FetchAvailability(ctx, professionalID, from, numDays)
	}
	return days, err
}

func (p *FallbackProvider) CreateAppointment(ctx context.Context, appointment *entities.Appointment) (string, error) {
	if p.primary == nil {
		return "", errors.New("scheduling provider not configured")
	}
	return p.primary.CreateAppointment(ctx, appointment)
}

func (p *FallbackProvider) RescheduleAppointment(ctx context.Context, externalID string, newStart string, reason string) error {
	if p.primary == nil {
		return errors.New("scheduling provider not configured")
	}
	return p.primary.RescheduleAppointment(ctx, externalID, newStart, reason)
}

func (p *FallbackProvider) CancelAppointment(ctx context.Context, externalID string, reason string) error {
	if p.primary == nil {
		return errors.New("scheduling provider not configured")
	}
	return p.primary.CancelAppointment(ctx, externalID, reason)
}
