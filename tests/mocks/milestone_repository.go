package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
)

type MilestoneRepository struct {
	mock.Mock
}

func (m *MilestoneRepository) BulkCreate(ctx context.Context, milestones []domain.Milestone) error {
	args := m.Called(ctx, milestones)
	return args.Error(0)
}

func (m *MilestoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MilestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Milestone), args.Error(1)
}

func (m *MilestoneRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	args := m.Called(ctx, id, completed)
	return args.Error(0)
}
