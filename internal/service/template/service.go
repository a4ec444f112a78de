package template

import (
	"context"
	"log"

	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/pkg/templateseed"
	"irs-portal/internal/repository"
)

type Service interface {
	ListAll(ctx context.Context) (map[domain.ServiceCategory][]domain.MilestoneTemplate, error)
	ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.MilestoneTemplate, error)
	Update(ctx context.Context, category domain.ServiceCategory, input domain.UpdateTemplateInput) ([]domain.MilestoneTemplate, error)
	SeedDefaults(ctx context.Context, seedPath string) error
}

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) Service {
	return &service{repos: repos}
}

func (s *service) ListAll(ctx context.Context) (map[domain.ServiceCategory][]domain.MilestoneTemplate, error) {
	result := make(map[domain.ServiceCategory][]domain.MilestoneTemplate, len(domain.AllCategories()))
	for _, category := range domain.AllCategories() {
		templates, err := s.repos.Template.ListByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		result[category] = templates
	}
	return result, nil
}

func (s *service) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.MilestoneTemplate, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "unknown service category")
	}
	return s.repos.Template.ListByCategory(ctx, category)
}

// Update replaces a category's checklist wholesale. Slice position is
// authoritative: sort_order is renumbered 1..N regardless of what the caller
// sent. An empty list clears the category: new projects materialize with no
// milestones until staff restore one. Existing projects keep the milestone
// copies they were stamped with.
func (s *service) Update(ctx context.Context, category domain.ServiceCategory, input domain.UpdateTemplateInput) ([]domain.MilestoneTemplate, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "unknown service category")
	}
	for _, m := range input.Milestones {
		if m.Name == "" {
			return nil, domain.NewValidationError("milestones", "milestone name is required")
		}
		if m.DaysOffset < 0 {
			return nil, domain.NewValidationError("days_offset", "must not be negative")
		}
	}

	entries := buildEntries(category, input.Milestones)

	err := s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		return txRepos.Template.ReplaceForCategory(ctx, category, entries)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SeedDefaults loads the shipped checklist YAML into an empty templates
// table. A non-empty table means staff have taken over; seeds never touch it.
func (s *service) SeedDefaults(ctx context.Context, seedPath string) error {
	count, err := s.repos.Template.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds, err := templateseed.Load(seedPath)
	if err != nil {
		return err
	}

	return s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		for category, milestones := range seeds {
			entries := buildEntries(category, milestones)
			if err := txRepos.Template.ReplaceForCategory(ctx, category, entries); err != nil {
				return err
			}
			log.Printf("Seeded %d milestone templates for category %s", len(entries), category)
		}
		return nil
	})
}

func buildEntries(category domain.ServiceCategory, milestones []domain.TemplateMilestoneInput) []domain.MilestoneTemplate {
	entries := make([]domain.MilestoneTemplate, len(milestones))
	for i, m := range milestones {
		entries[i] = domain.MilestoneTemplate{
			ID:          uuid.New(),
			Category:    category,
			Name:        m.Name,
			Description: m.Description,
			SortOrder:   i + 1,
			DaysOffset:  m.DaysOffset,
		}
	}
	return entries
}
