package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/repositories"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/scheduling"
)

// Mocks shared across the service tests.

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, patientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByProfessional(ctx context.Context, professionalID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, professionalID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

type MockProcedureRepository struct {
	mock.Mock
}

func (m *MockProcedureRepository) Create(ctx context.Context, procedure *entities.Procedure) error {
	args := m.Called(ctx, procedure)
	return args.Error(0)
}

func (m *MockProcedureRepository) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) Update(ctx context.Context, procedure *entities.Procedure) error {
	return nil
}

func (m *MockProcedureRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *MockProcedureRepository) ListByProfessional(ctx context.Context, professionalID string, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	args := m.Called(ctx, professionalID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Procedure), args.Error(1)
}

type MockProfessionalRepository struct {
	mock.Mock
}

func (m *MockProfessionalRepository) GetByID(ctx context.Context, id string) (*entities.Professional, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalRepository) List(ctx context.Context, filter repositories.ProfessionalFilter) ([]*entities.Professional, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Professional), args.Error(1)
}

type MockSchedulingProvider struct {
	mock.Mock
}

func (m *MockSchedulingProvider) FetchAvailability(ctx context.Context, professionalID string, from scheduling.Date, numDays int) ([]entities.AvailabilityDay, error) {
	args := m.Called(ctx, professionalID, from, numDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AvailabilityDay), args.Error(1)
}

func (m *MockSchedulingProvider) CreateAppointment(ctx context.Context, appointment *entities.Appointment) (string, error) {
	args := m.Called(ctx, appointment)
	return args.String(0), args.Error(1)
}

func (m *MockSchedulingProvider) RescheduleAppointment(ctx context.Context, externalID string, newStart string, reason string) error {
	args := m.Called(ctx, externalID, newStart, reason)
	return args.Error(0)
}

func (m *MockSchedulingProvider) CancelAppointment(ctx context.Context, externalID string, reason string) error {
	args := m.Called(ctx, externalID, reason)
	return args.Error(0)
}

// MemoryCache is a minimal in-process CacheProvider for tests.
type MemoryCache struct {
	values map[string][]byte
}

var errCacheMiss = errors.New("cache miss")

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *MemoryCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.values {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.values, key)
		}
	}
	return nil
}
