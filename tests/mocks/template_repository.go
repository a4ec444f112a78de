package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
)

type TemplateRepository struct {
	mock.Mock
}

func (m *TemplateRepository) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.MilestoneTemplate, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MilestoneTemplate), args.Error(1)
}

func (m *TemplateRepository) ReplaceForCategory(ctx context.Context, category domain.ServiceCategory, entries []domain.MilestoneTemplate) error {
	args := m.Called(ctx, category, entries)
	return args.Error(0)
}

func (m *TemplateRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
