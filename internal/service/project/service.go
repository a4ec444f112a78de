package project

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/pkg/trackingcode"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/notification"
)

type Service interface {
	// Materialize turns an approved request into a project with a stamped
	// milestone set. It runs against the caller's transaction-bound
	// repositories so the request status change and the project creation
	// commit or roll back together.
	Materialize(ctx context.Context, repos *repository.Repositories, req *domain.ServiceRequest) (*domain.Project, error)

	Create(ctx context.Context, input CreateProjectInput, createdBy uuid.UUID) (*domain.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*ProjectView, error)
	List(ctx context.Context, clientID *uuid.UUID, status *domain.ProjectStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Project], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus, actor uuid.UUID) (*domain.Project, error)
	ToggleMilestone(ctx context.Context, milestoneID uuid.UUID, completed bool, actor uuid.UUID) (*domain.Milestone, error)
}

// ProjectView is a project together with its derived milestone progress.
type ProjectView struct {
	Project    *domain.Project    `json:"project"`
	Milestones []domain.Milestone `json:"milestones"`
	Progress   domain.Progress    `json:"progress"`
}

type CreateProjectInput struct {
	ClientID      uuid.UUID              `json:"client_id"`
	ProjectName   string                 `json:"project_name"`
	Category      domain.ServiceCategory `json:"category"`
	StartDate     *domain.Date           `json:"start_date,omitempty"`
	ContractValue *float64               `json:"contract_value,omitempty"`
}

type service struct {
	repos    *repository.Repositories
	notifSvc notification.Service
}

func NewService(repos *repository.Repositories, notifSvc notification.Service) Service {
	return &service{repos: repos, notifSvc: notifSvc}
}

// trackingCodeAttempts bounds the collision retry loop on project insert.
const trackingCodeAttempts = 5

func (s *service) Materialize(ctx context.Context, repos *repository.Repositories, req *domain.ServiceRequest) (*domain.Project, error) {
	// Idempotency: a request materializes at most one project.
	existing, err := repos.Project.GetByRequestID(ctx, req.ID)
	if err == nil {
		return existing, nil
	}
	if err != domain.ErrNotFound {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	details, err := domain.DecodeRequestDetails(req.Category, req.Details)
	if err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	client, err := repos.Client.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: fmt.Errorf("failed to load client: %w", err)}
	}

	// An empty checklist is valid: the project materializes with zero
	// milestones and staff add them by updating the templates first.
	templates, err := repos.Template.ListByCategory(ctx, req.Category)
	if err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	startDate := startDateFromDetails(details)
	endDate := startDate.AddDate(0, 0, maxOffset(templates))
	requestID := req.ID

	proj := &domain.Project{
		ID:          uuid.New(),
		RequestID:   &requestID,
		ClientID:    req.ClientID,
		ProjectName: fmt.Sprintf("%s for %s", req.Category.Label(), client.CompanyName),
		ProjectCode: projectCode(startDate, req.ID),
		Category:    req.Category,
		Status:      domain.ProjectPlanning,
		StartDate:   startDate,
		EndDate:     &endDate,
		Metadata:    metadataFromDetails(details),
	}

	if err := s.insertWithFreshCode(ctx, repos, proj); err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	if err := stampMilestones(ctx, repos, proj, templates); err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	activity := &domain.ProjectActivity{
		ID:              uuid.New(),
		ProjectID:       proj.ID,
		Title:           "Project created from approved request",
		IsClientVisible: true,
		CreatedBy:       req.ReviewedBy,
	}
	if err := repos.Activity.Create(ctx, activity); err != nil {
		return nil, &domain.MaterializationError{RequestID: req.ID.String(), Err: err}
	}

	return proj, nil
}

func (s *service) Create(ctx context.Context, input CreateProjectInput, createdBy uuid.UUID) (*domain.Project, error) {
	if input.ProjectName == "" {
		return nil, domain.NewValidationError("project_name", "required")
	}
	if !input.Category.IsValid() {
		return nil, domain.NewValidationError("category", "unknown service category")
	}
	if _, err := s.repos.Client.GetByID(ctx, input.ClientID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NewValidationError("client_id", "unknown client")
		}
		return nil, err
	}

	templates, err := s.repos.Template.ListByCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate != nil && !input.StartDate.IsZero() {
		startDate = input.StartDate.Time
	}
	endDate := startDate.AddDate(0, 0, maxOffset(templates))

	proj := &domain.Project{
		ID:            uuid.New(),
		ClientID:      input.ClientID,
		ProjectName:   input.ProjectName,
		ProjectCode:   projectCode(startDate, uuid.New()),
		Category:      input.Category,
		Status:        domain.ProjectPlanning,
		StartDate:     startDate,
		EndDate:       &endDate,
		ContractValue: input.ContractValue,
	}

	err = s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		if err := s.insertWithFreshCode(ctx, txRepos, proj); err != nil {
			return err
		}
		if err := stampMilestones(ctx, txRepos, proj, templates); err != nil {
			return err
		}
		actor := createdBy
		activity := &domain.ProjectActivity{
			ID:              uuid.New(),
			ProjectID:       proj.ID,
			Title:           "Project created",
			IsClientVisible: true,
			CreatedBy:       &actor,
		}
		return txRepos.Activity.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}
	return proj, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProjectView, error) {
	proj, err := s.repos.Project.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	milestones, err := s.repos.Milestone.ListByProject(ctx, proj.ID)
	if err != nil {
		return nil, err
	}

	return &ProjectView{
		Project:    proj,
		Milestones: milestones,
		Progress:   ComputeProgress(milestones),
	}, nil
}

func (s *service) List(ctx context.Context, clientID *uuid.UUID, status *domain.ProjectStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Project], error) {
	if status != nil && !status.IsValid() {
		return domain.PaginatedResponse[domain.Project]{}, domain.NewValidationError("status", "unknown project status")
	}
	params.Validate()

	projects, total, err := s.repos.Project.List(ctx, clientID, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Project]{}, err
	}
	return domain.NewPaginatedResponse(projects, params.Page, params.PageSize, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus, actor uuid.UUID) (*domain.Project, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown project status")
	}

	proj, err := s.repos.Project.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.Status.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}
	if proj.Status == status {
		return proj, nil
	}

	err = s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Project.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if status == domain.ProjectCompleted {
			now := time.Now().UTC()
			if err := txRepos.Project.SetEndDate(ctx, id, &now); err != nil {
				return err
			}
		}
		activity := &domain.ProjectActivity{
			ID:              uuid.New(),
			ProjectID:       id,
			Title:           fmt.Sprintf("Status changed to %s", status.Label()),
			IsClientVisible: true,
			CreatedBy:       &actor,
		}
		return txRepos.Activity.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	proj.Status = status
	return proj, nil
}

func (s *service) ToggleMilestone(ctx context.Context, milestoneID uuid.UUID, completed bool, actor uuid.UUID) (*domain.Milestone, error) {
	milestone, err := s.repos.Milestone.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	proj, err := s.repos.Project.GetByID(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if proj.Status.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}

	if milestone.IsCompleted == completed {
		return milestone, nil
	}

	err = s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Milestone.SetCompleted(ctx, milestoneID, completed); err != nil {
			return err
		}
		// First completed milestone moves a freshly materialized project
		// out of planning.
		if completed && proj.Status == domain.ProjectPlanning {
			if err := txRepos.Project.UpdateStatus(ctx, proj.ID, domain.ProjectInProgress); err != nil {
				return err
			}
		}
		verb := "completed"
		if !completed {
			verb = "reopened"
		}
		activity := &domain.ProjectActivity{
			ID:              uuid.New(),
			ProjectID:       proj.ID,
			Title:           fmt.Sprintf("Milestone %q %s", milestone.MilestoneName, verb),
			IsClientVisible: true,
			CreatedBy:       &actor,
		}
		return txRepos.Activity.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	milestone.IsCompleted = completed
	if completed {
		now := time.Now().UTC()
		milestone.CompletedAt = &now

		if s.notifSvc != nil {
			go func(proj domain.Project, milestone domain.Milestone) {
				ctx := context.Background()
				if err := s.notifSvc.NotifyMilestoneCompleted(ctx, &proj, &milestone); err != nil {
					log.Printf("Failed to notify milestone completion: %v", err)
				}
			}(*proj, *milestone)
		}
	} else {
		milestone.CompletedAt = nil
	}
	return milestone, nil
}

// insertWithFreshCode draws tracking codes until the insert lands. The code
// space makes more than one round rare; the bound guards against a broken
// random source looping forever.
func (s *service) insertWithFreshCode(ctx context.Context, repos *repository.Repositories, proj *domain.Project) error {
	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		code, err := trackingcode.New()
		if err != nil {
			return err
		}
		proj.TrackingCode = code

		err = repos.Project.Create(ctx, proj)
		if err == nil {
			return nil
		}
		if err != repository.ErrTrackingCodeTaken {
			return err
		}
	}
	return fmt.Errorf("failed to allocate a tracking code after %d attempts", trackingCodeAttempts)
}

func stampMilestones(ctx context.Context, repos *repository.Repositories, proj *domain.Project, templates []domain.MilestoneTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	milestones := make([]domain.Milestone, len(templates))
	for i, tmpl := range templates {
		milestones[i] = domain.Milestone{
			ID:            uuid.New(),
			ProjectID:     proj.ID,
			MilestoneName: tmpl.Name,
			Description:   tmpl.Description,
			SortOrder:     tmpl.SortOrder,
			DueDate:       proj.StartDate.AddDate(0, 0, tmpl.DaysOffset),
		}
	}
	return repos.Milestone.BulkCreate(ctx, milestones)
}

func maxOffset(templates []domain.MilestoneTemplate) int {
	max := 0
	for _, tmpl := range templates {
		if tmpl.DaysOffset > max {
			max = tmpl.DaysOffset
		}
	}
	return max
}

func projectCode(startDate time.Time, seed uuid.UUID) string {
	return fmt.Sprintf("PRJ-%d-%.8s", startDate.Year(), seed.String())
}
