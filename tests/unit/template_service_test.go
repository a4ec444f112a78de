package unit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/template"
	"irs-portal/tests/mocks"
)

func TestTemplateService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Renumbers sort order from slice position", func(t *testing.T) {
		mockTmplRepo := new(mocks.TemplateRepository)
		repos := &repository.Repositories{Template: mockTmplRepo}
		svc := template.NewService(repos)

		input := domain.UpdateTemplateInput{
			Milestones: []domain.TemplateMilestoneInput{
				{Name: "Kick-off", DaysOffset: 0},
				{Name: "Execution", DaysOffset: 10},
				{Name: "Close-out", DaysOffset: 20},
			},
		}

		mockTmplRepo.On("ReplaceForCategory", ctx, domain.CategoryHSE, mock.MatchedBy(func(entries []domain.MilestoneTemplate) bool {
			if len(entries) != 3 {
				return false
			}
			for i, e := range entries {
				if e.SortOrder != i+1 || e.Category != domain.CategoryHSE {
					return false
				}
			}
			return entries[0].Name == "Kick-off" && entries[2].Name == "Close-out"
		})).Return(nil).Once()

		entries, err := svc.Update(ctx, domain.CategoryHSE, input)

		assert.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, 2, entries[1].SortOrder)
		mockTmplRepo.AssertExpectations(t)
	})

	t.Run("Empty checklist clears the category", func(t *testing.T) {
		mockTmplRepo := new(mocks.TemplateRepository)
		repos := &repository.Repositories{Template: mockTmplRepo}
		svc := template.NewService(repos)

		mockTmplRepo.On("ReplaceForCategory", ctx, domain.CategoryHSE, mock.MatchedBy(func(entries []domain.MilestoneTemplate) bool {
			return len(entries) == 0
		})).Return(nil).Once()

		entries, err := svc.Update(ctx, domain.CategoryHSE, domain.UpdateTemplateInput{})

		assert.NoError(t, err)
		assert.Empty(t, entries)
		mockTmplRepo.AssertExpectations(t)
	})

	t.Run("Rejects unnamed milestone", func(t *testing.T) {
		svc := template.NewService(&repository.Repositories{})

		_, err := svc.Update(ctx, domain.CategoryHSE, domain.UpdateTemplateInput{
			Milestones: []domain.TemplateMilestoneInput{{Name: ""}},
		})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Rejects negative offset", func(t *testing.T) {
		svc := template.NewService(&repository.Repositories{})

		_, err := svc.Update(ctx, domain.CategoryHSE, domain.UpdateTemplateInput{
			Milestones: []domain.TemplateMilestoneInput{{Name: "Kick-off", DaysOffset: -1}},
		})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Rejects unknown category", func(t *testing.T) {
		svc := template.NewService(&repository.Repositories{})

		_, err := svc.Update(ctx, "catering", domain.UpdateTemplateInput{
			Milestones: []domain.TemplateMilestoneInput{{Name: "Kick-off"}},
		})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestTemplateService_SeedDefaults_SkipsNonEmptyTable(t *testing.T) {
	ctx := context.Background()
	mockTmplRepo := new(mocks.TemplateRepository)
	repos := &repository.Repositories{Template: mockTmplRepo}
	svc := template.NewService(repos)

	mockTmplRepo.On("CountAll", ctx).Return(int64(23), nil).Once()

	err := svc.SeedDefaults(ctx, "does-not-matter.yaml")

	assert.NoError(t, err)
	mockTmplRepo.AssertNotCalled(t, "ReplaceForCategory", mock.Anything, mock.Anything, mock.Anything)
}
