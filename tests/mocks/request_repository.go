package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
)

type RequestRepository struct {
	mock.Mock
}

func (m *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *RequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *RequestRepository) List(ctx context.Context, status *domain.RequestStatus, clientID *uuid.UUID, params domain.PaginationParams) ([]domain.ServiceRequest, int64, error) {
	args := m.Called(ctx, status, clientID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Get(1).(int64), args.Error(2)
}

func (m *RequestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus, reviewedBy *uuid.UUID, note *string) error {
	args := m.Called(ctx, id, status, reviewedBy, note)
	return args.Error(0)
}
