package activity

import (
	"context"

	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
)

type Service interface {
	Add(ctx context.Context, projectID uuid.UUID, input AddActivityInput, author *domain.User) (*domain.ProjectActivity, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, viewer *domain.User) ([]domain.ProjectActivity, error)
}

type AddActivityInput struct {
	Title           string  `json:"title"`
	Body            *string `json:"body,omitempty"`
	IsClientVisible bool    `json:"is_client_visible"`
}

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) Service {
	return &service{repos: repos}
}

func (s *service) Add(ctx context.Context, projectID uuid.UUID, input AddActivityInput, author *domain.User) (*domain.ProjectActivity, error) {
	if input.Title == "" {
		return nil, domain.NewValidationError("title", "required")
	}
	if _, err := s.repos.Project.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	authorID := author.ID
	entry := &domain.ProjectActivity{
		ID:              uuid.New(),
		ProjectID:       projectID,
		Title:           input.Title,
		Body:            input.Body,
		IsClientVisible: input.IsClientVisible,
		CreatedBy:       &authorID,
	}
	if err := s.repos.Activity.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByProject hides internal-only entries from client viewers.
func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, viewer *domain.User) ([]domain.ProjectActivity, error) {
	proj, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff() {
		if viewer.ClientID == nil || *viewer.ClientID != proj.ClientID {
			return nil, domain.ErrForbidden
		}
	}
	return s.repos.Activity.ListByProject(ctx, projectID, !viewer.IsStaff())
}
