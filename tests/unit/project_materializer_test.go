package unit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
	"irs-portal/internal/pkg/trackingcode"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/project"
	"irs-portal/tests/mocks"
)

type materializerRepos struct {
	repos     *repository.Repositories
	project   *mocks.ProjectRepository
	template  *mocks.TemplateRepository
	milestone *mocks.MilestoneRepository
	client    *mocks.ClientRepository
	activity  *mocks.ActivityRepository
}

func newMaterializerRepos() *materializerRepos {
	m := &materializerRepos{
		project:   new(mocks.ProjectRepository),
		template:  new(mocks.TemplateRepository),
		milestone: new(mocks.MilestoneRepository),
		client:    new(mocks.ClientRepository),
		activity:  new(mocks.ActivityRepository),
	}
	m.repos = &repository.Repositories{
		Project:   m.project,
		Template:  m.template,
		Milestone: m.milestone,
		Client:    m.client,
		Activity:  m.activity,
	}
	return m
}

func offshoreRequest(t *testing.T, startDate string) *domain.ServiceRequest {
	t.Helper()
	details := map[string]interface{}{
		"service_name": "ROV Inspection",
		"asset_type":   "FPSO",
		"location":     "Bonny Terminal",
	}
	if startDate != "" {
		details["start_date"] = startDate
	}
	raw, err := json.Marshal(details)
	assert.NoError(t, err)

	reviewer := uuid.New()
	return &domain.ServiceRequest{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		RequestedBy: uuid.New(),
		Category:    domain.CategoryOffshore,
		Details:     raw,
		Status:      domain.RequestApproved,
		ReviewedBy:  &reviewer,
	}
}

func offshoreTemplates() []domain.MilestoneTemplate {
	return []domain.MilestoneTemplate{
		{ID: uuid.New(), Category: domain.CategoryOffshore, Name: "Scope Confirmation", SortOrder: 1, DaysOffset: 0},
		{ID: uuid.New(), Category: domain.CategoryOffshore, Name: "Offshore Execution", SortOrder: 2, DaysOffset: 14},
	}
}

func TestMaterialize_CreatesProjectWithMilestones(t *testing.T) {
	ctx := context.Background()
	m := newMaterializerRepos()
	svc := project.NewService(m.repos, nil)

	req := offshoreRequest(t, "2026-03-01")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m.project.On("GetByRequestID", ctx, req.ID).Return(nil, domain.ErrNotFound).Once()
	m.client.On("GetByID", ctx, req.ClientID).Return(&domain.Client{ID: req.ClientID, CompanyName: "Coastal Energy Ltd"}, nil).Once()
	m.template.On("ListByCategory", ctx, domain.CategoryOffshore).Return(offshoreTemplates(), nil).Once()
	m.project.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
		return p.RequestID != nil && *p.RequestID == req.ID &&
			p.Status == domain.ProjectPlanning &&
			p.StartDate.Equal(start) &&
			p.EndDate != nil && p.EndDate.Equal(start.AddDate(0, 0, 14)) &&
			trackingcode.Valid(p.TrackingCode)
	})).Return(nil).Once()
	m.milestone.On("BulkCreate", ctx, mock.MatchedBy(func(ms []domain.Milestone) bool {
		return len(ms) == 2 &&
			ms[0].DueDate.Equal(start) &&
			ms[1].DueDate.Equal(start.AddDate(0, 0, 14)) &&
			ms[0].SortOrder == 1 && ms[1].SortOrder == 2 &&
			!ms[0].IsCompleted && !ms[1].IsCompleted
	})).Return(nil).Once()
	m.activity.On("Create", ctx, mock.MatchedBy(func(a *domain.ProjectActivity) bool {
		return a.IsClientVisible
	})).Return(nil).Once()

	proj, err := svc.Materialize(ctx, m.repos, req)

	assert.NoError(t, err)
	assert.NotNil(t, proj)
	assert.Equal(t, "Offshore Technical Services for Coastal Energy Ltd", proj.ProjectName)
	m.project.AssertExpectations(t)
	m.milestone.AssertExpectations(t)
	m.activity.AssertExpectations(t)
}

func TestMaterialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := newMaterializerRepos()
	svc := project.NewService(m.repos, nil)

	req := offshoreRequest(t, "")
	existing := &domain.Project{ID: uuid.New(), RequestID: &req.ID}
	m.project.On("GetByRequestID", ctx, req.ID).Return(existing, nil).Once()

	proj, err := svc.Materialize(ctx, m.repos, req)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, proj.ID)
	m.project.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.milestone.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything)
}

func TestMaterialize_RetriesOnTrackingCodeCollision(t *testing.T) {
	ctx := context.Background()
	m := newMaterializerRepos()
	svc := project.NewService(m.repos, nil)

	req := offshoreRequest(t, "")
	m.project.On("GetByRequestID", ctx, req.ID).Return(nil, domain.ErrNotFound).Once()
	m.client.On("GetByID", ctx, req.ClientID).Return(&domain.Client{ID: req.ClientID, CompanyName: "Coastal Energy Ltd"}, nil).Once()
	m.template.On("ListByCategory", ctx, domain.CategoryOffshore).Return(offshoreTemplates(), nil).Once()

	firstCode := ""
	m.project.On("Create", ctx, mock.Anything).Return(repository.ErrTrackingCodeTaken).Run(func(args mock.Arguments) {
		firstCode = args.Get(1).(*domain.Project).TrackingCode
	}).Once()
	m.project.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
		return p.TrackingCode != firstCode && trackingcode.Valid(p.TrackingCode)
	})).Return(nil).Once()
	m.milestone.On("BulkCreate", ctx, mock.Anything).Return(nil).Once()
	m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()

	proj, err := svc.Materialize(ctx, m.repos, req)

	assert.NoError(t, err)
	assert.NotNil(t, proj)
	m.project.AssertExpectations(t)
}

func TestMaterialize_EmptyChecklistCreatesProjectWithoutMilestones(t *testing.T) {
	ctx := context.Background()
	m := newMaterializerRepos()
	svc := project.NewService(m.repos, nil)

	req := offshoreRequest(t, "")
	m.project.On("GetByRequestID", ctx, req.ID).Return(nil, domain.ErrNotFound).Once()
	m.client.On("GetByID", ctx, req.ClientID).Return(&domain.Client{ID: req.ClientID, CompanyName: "Coastal Energy Ltd"}, nil).Once()
	m.template.On("ListByCategory", ctx, domain.CategoryOffshore).Return([]domain.MilestoneTemplate{}, nil).Once()
	m.project.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
		return p.Status == domain.ProjectPlanning && trackingcode.Valid(p.TrackingCode)
	})).Return(nil).Once()
	m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()

	proj, err := svc.Materialize(ctx, m.repos, req)

	assert.NoError(t, err)
	assert.NotNil(t, proj)
	m.project.AssertExpectations(t)
	m.milestone.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything)
}

func TestMaterialize_SupplyMetadataFromDetails(t *testing.T) {
	ctx := context.Background()
	m := newMaterializerRepos()
	svc := project.NewService(m.repos, nil)

	raw, _ := json.Marshal(domain.SupplyDetails{
		ItemName: "Drill pipe casing",
		Quantity: 40,
		Location: "Onne Port",
	})
	req := &domain.ServiceRequest{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Category: domain.CategorySupply,
		Details:  raw,
		Status:   domain.RequestApproved,
	}

	m.project.On("GetByRequestID", ctx, req.ID).Return(nil, domain.ErrNotFound).Once()
	m.client.On("GetByID", ctx, req.ClientID).Return(&domain.Client{ID: req.ClientID, CompanyName: "Delta Marine"}, nil).Once()
	m.template.On("ListByCategory", ctx, domain.CategorySupply).Return([]domain.MilestoneTemplate{
		{ID: uuid.New(), Category: domain.CategorySupply, Name: "Order Confirmation", SortOrder: 1},
	}, nil).Once()
	m.project.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
		var meta domain.SupplyMetadata
		if err := json.Unmarshal(p.Metadata, &meta); err != nil {
			return false
		}
		return meta.Destination == "Onne Port" && meta.Origin == "" && meta.Vessel == ""
	})).Return(nil).Once()
	m.milestone.On("BulkCreate", ctx, mock.Anything).Return(nil).Once()
	m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Materialize(ctx, m.repos, req)

	assert.NoError(t, err)
	m.project.AssertExpectations(t)
}
