package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/observability"
	apperrors "github.com/rbmarquez/DoctorQ-sub003/pkg/errors"
)

const availabilityCachePrefix = "availability:"

// AvailabilityService fetches per-day slot availability from the external
// agenda. The backend caps each call at providers.MaxAvailabilityDays; wider
// horizons are paginated by advancing the from date. Fetched windows are
// cached briefly in Redis and invalidated whenever a booking mutates the
// professional's agenda.
type AvailabilityService struct {
	provider providers.SchedulingProvider
	cache    providers.CacheProvider
	cacheTTL time.Duration
	metrics  *observability.Metrics
}

// NewAvailabilityService creates a new availability service. The cache and
// metrics are optional; pass nil to fetch straight from the provider and to
// skip hit/miss recording.
func NewAvailabilityService(provider providers.SchedulingProvider, cache providers.CacheProvider, cacheTTL time.Duration, metrics *observability.Metrics) *AvailabilityService {
	return &AvailabilityService{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// FetchWindow returns availability for a professional starting at from for
// numDays days, paginating provider calls as needed.
func (s *AvailabilityService) FetchWindow(ctx context.Context, professionalID string, from scheduling.Date, numDays int) ([]entities.AvailabilityDay, error) {
	if professionalID == "" {
		return nil, apperrors.NewValidationError("professional id is required")
	}
	if numDays <= 0 {
		return nil, apperrors.NewValidationError("numDays must be positive")
	}

	cacheKey := s.cacheKey(professionalID, from, numDays)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var days []entities.AvailabilityDay
			if err := json.Unmarshal(cached, &days); err == nil {
				s.recordCacheHit(ctx, cacheKey)
				return days, nil
			}
		}
		s.recordCacheMiss(ctx, cacheKey)
	}

	days := make([]entities.AvailabilityDay, 0, numDays)
	cursor := from
	remaining := numDays
	for remaining > 0 {
		chunk := remaining
		if chunk > providers.MaxAvailabilityDays {
			chunk = providers.MaxAvailabilityDays
		}
		fetched, err := s.provider.FetchAvailability(ctx, professionalID, cursor, chunk)
		if err != nil {
			return nil, apperrors.NewExternalError("failed to fetch availability", err)
		}
		days = append(days, fetched...)
		cursor = cursor.AddDays(chunk)
		remaining -= chunk
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(days); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL); err != nil {
				log.Debug().Err(err).Str("professional_id", professionalID).
					Msg("failed to cache availability window")
			}
		}
	}

	return days, nil
}

// Invalidate drops every cached window for a professional. Called after a
// booking, reschedule or cancellation changes the agenda.
func (s *AvailabilityService) Invalidate(ctx context.Context, professionalID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, availabilityCachePrefix+professionalID+":"); err != nil {
		log.Warn().Err(err).Str("professional_id", professionalID).
			Msg("failed to invalidate availability cache")
	}
}

func (s *AvailabilityService) cacheKey(professionalID string, from scheduling.Date, numDays int) string {
	return fmt.Sprintf("%s%s:%s:%d", availabilityCachePrefix, professionalID, from.String(), numDays)
}

func (s *AvailabilityService) recordCacheHit(ctx context.Context, key string) {
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
	}
}

func (s *AvailabilityService) recordCacheMiss(ctx context.Context, key string) {
	if s.metrics != nil {
		observability.RecordCacheMiss(ctx, s.metrics, key)
	}
}
