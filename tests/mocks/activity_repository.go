package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
)

type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, activity *domain.ProjectActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, clientVisibleOnly bool) ([]domain.ProjectActivity, error) {
	args := m.Called(ctx, projectID, clientVisibleOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectActivity), args.Error(1)
}
