package unit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
	"irs-portal/internal/service/project"
	"irs-portal/tests/mocks"
)

func TestProjectService_ToggleMilestone(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("Completing first milestone starts the project", func(t *testing.T) {
		m := newMaterializerRepos()
		mockNotifSvc := new(mocks.NotificationService)
		svc := project.NewService(m.repos, mockNotifSvc)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectPlanning, ClientID: uuid.New()}
		milestone := &domain.Milestone{ID: uuid.New(), ProjectID: proj.ID, MilestoneName: "Kick-off"}

		m.milestone.On("GetByID", ctx, milestone.ID).Return(milestone, nil).Once()
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()
		m.milestone.On("SetCompleted", ctx, milestone.ID, true).Return(nil).Once()
		m.project.On("UpdateStatus", ctx, proj.ID, domain.ProjectInProgress).Return(nil).Once()
		m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockNotifSvc.On("NotifyMilestoneCompleted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		updated, err := svc.ToggleMilestone(ctx, milestone.ID, true, actor)

		assert.NoError(t, err)
		assert.True(t, updated.IsCompleted)
		assert.NotNil(t, updated.CompletedAt)
		m.project.AssertExpectations(t)
		m.milestone.AssertExpectations(t)
	})

	t.Run("Reopening does not touch project status", func(t *testing.T) {
		m := newMaterializerRepos()
		svc := project.NewService(m.repos, nil)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectInProgress}
		now := proj.StartDate
		milestone := &domain.Milestone{ID: uuid.New(), ProjectID: proj.ID, IsCompleted: true, CompletedAt: &now}

		m.milestone.On("GetByID", ctx, milestone.ID).Return(milestone, nil).Once()
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()
		m.milestone.On("SetCompleted", ctx, milestone.ID, false).Return(nil).Once()
		m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.ToggleMilestone(ctx, milestone.ID, false, actor)

		assert.NoError(t, err)
		assert.False(t, updated.IsCompleted)
		assert.Nil(t, updated.CompletedAt)
		m.project.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Terminal project is immutable", func(t *testing.T) {
		m := newMaterializerRepos()
		svc := project.NewService(m.repos, nil)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectCompleted}
		milestone := &domain.Milestone{ID: uuid.New(), ProjectID: proj.ID}

		m.milestone.On("GetByID", ctx, milestone.ID).Return(milestone, nil).Once()
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()

		_, err := svc.ToggleMilestone(ctx, milestone.ID, true, actor)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.milestone.AssertNotCalled(t, "SetCompleted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No-op toggle returns current state", func(t *testing.T) {
		m := newMaterializerRepos()
		svc := project.NewService(m.repos, nil)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectInProgress}
		milestone := &domain.Milestone{ID: uuid.New(), ProjectID: proj.ID, IsCompleted: false}

		m.milestone.On("GetByID", ctx, milestone.ID).Return(milestone, nil).Once()
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()

		updated, err := svc.ToggleMilestone(ctx, milestone.ID, false, actor)

		assert.NoError(t, err)
		assert.False(t, updated.IsCompleted)
		m.milestone.AssertNotCalled(t, "SetCompleted", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProjectService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("Terminal project rejects changes", func(t *testing.T) {
		m := newMaterializerRepos()
		svc := project.NewService(m.repos, nil)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectCancelled}
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()

		_, err := svc.UpdateStatus(ctx, proj.ID, domain.ProjectInProgress, actor)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Completing stamps the end date", func(t *testing.T) {
		m := newMaterializerRepos()
		svc := project.NewService(m.repos, nil)

		proj := &domain.Project{ID: uuid.New(), Status: domain.ProjectInProgress}
		m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()
		m.project.On("UpdateStatus", ctx, proj.ID, domain.ProjectCompleted).Return(nil).Once()
		m.project.On("SetEndDate", ctx, proj.ID, mock.Anything).Return(nil).Once()
		m.activity.On("Create", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.UpdateStatus(ctx, proj.ID, domain.ProjectCompleted, actor)

		assert.NoError(t, err)
		assert.Equal(t, domain.ProjectCompleted, updated.Status)
		m.project.AssertExpectations(t)
	})
}
