package unit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/request"
	"irs-portal/tests/mocks"
)

type materializerMock struct {
	mock.Mock
}

func (m *materializerMock) Materialize(ctx context.Context, repos *repository.Repositories, req *domain.ServiceRequest) (*domain.Project, error) {
	args := m.Called(ctx, repos, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func stringPtr(s string) *string {
	return &s
}

func clientUser(clientID uuid.UUID) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Role:     "client",
		ClientID: &clientID,
	}
}

func manningDetails(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(domain.ManningDetails{
		Position: "Chief Engineer",
		Quantity: 2,
		Duration: "6 months",
	})
	assert.NoError(t, err)
	return raw
}

func TestRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	submitter := clientUser(clientID)

	t.Run("Success", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		mockNotifSvc := new(mocks.NotificationService)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, mockNotifSvc)

		mockReqRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.ServiceRequest) bool {
			return r.ClientID == clientID &&
				r.RequestedBy == submitter.ID &&
				r.Status == domain.RequestPending
		})).Return(nil).Once()
		// Fan-out runs on its own goroutine and its errors are ignored.
		mockNotifSvc.On("NotifyRequestSubmitted", mock.Anything, mock.Anything).Return(nil).Maybe()

		req, err := svc.Submit(ctx, domain.SubmitRequestInput{
			Category: domain.CategoryManning,
			Details:  manningDetails(t),
		}, submitter)

		assert.NoError(t, err)
		assert.NotNil(t, req)
		assert.Equal(t, domain.RequestPending, req.Status)
		mockReqRepo.AssertExpectations(t)
	})

	t.Run("Unknown category", func(t *testing.T) {
		svc := request.NewService(&repository.Repositories{}, nil, nil)

		_, err := svc.Submit(ctx, domain.SubmitRequestInput{
			Category: "catering",
			Details:  manningDetails(t),
		}, submitter)

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Details fail category validation", func(t *testing.T) {
		svc := request.NewService(&repository.Repositories{}, nil, nil)

		raw, _ := json.Marshal(domain.ManningDetails{Position: "", Quantity: 0})
		_, err := svc.Submit(ctx, domain.SubmitRequestInput{
			Category: domain.CategoryManning,
			Details:  raw,
		}, submitter)

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Submitter without client company", func(t *testing.T) {
		svc := request.NewService(&repository.Repositories{}, nil, nil)
		staff := &domain.User{ID: uuid.New(), Role: "staff"}

		_, err := svc.Submit(ctx, domain.SubmitRequestInput{
			Category: domain.CategoryManning,
			Details:  manningDetails(t),
		}, staff)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	reviewer := uuid.New()
	clientID := uuid.New()

	pendingRequest := func() *domain.ServiceRequest {
		return &domain.ServiceRequest{
			ID:          uuid.New(),
			ClientID:    clientID,
			RequestedBy: uuid.New(),
			Category:    domain.CategoryManning,
			Details:     manningDetails(t),
			Status:      domain.RequestPending,
		}
	}

	t.Run("Success materializes a project", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		mockNotifSvc := new(mocks.NotificationService)
		materializer := new(materializerMock)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, materializer, mockNotifSvc)

		req := pendingRequest()
		expectedProject := &domain.Project{ID: uuid.New(), RequestID: &req.ID}

		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()
		mockReqRepo.On("UpdateStatus", ctx, req.ID, domain.RequestApproved, &reviewer, (*string)(nil)).Return(nil).Once()
		materializer.On("Materialize", ctx, mock.Anything, mock.MatchedBy(func(r *domain.ServiceRequest) bool {
			return r.ID == req.ID && r.Status == domain.RequestApproved
		})).Return(expectedProject, nil).Once()
		mockNotifSvc.On("NotifyRequestStatus", mock.Anything, mock.Anything).Return(nil).Maybe()

		approved, proj, err := svc.Approve(ctx, req.ID, reviewer, domain.ReviewRequestInput{})

		assert.NoError(t, err)
		assert.Equal(t, domain.RequestApproved, approved.Status)
		assert.Equal(t, expectedProject.ID, proj.ID)
		mockReqRepo.AssertExpectations(t)
		materializer.AssertExpectations(t)
	})

	t.Run("Re-approving returns the existing project", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		mockProjRepo := new(mocks.ProjectRepository)
		materializer := new(materializerMock)
		repos := &repository.Repositories{Request: mockReqRepo, Project: mockProjRepo}
		svc := request.NewService(repos, materializer, nil)

		req := pendingRequest()
		req.Status = domain.RequestApproved
		existing := &domain.Project{ID: uuid.New(), RequestID: &req.ID}

		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()
		mockProjRepo.On("GetByRequestID", ctx, req.ID).Return(existing, nil).Once()

		approved, proj, err := svc.Approve(ctx, req.ID, reviewer, domain.ReviewRequestInput{})

		assert.NoError(t, err)
		assert.Equal(t, domain.RequestApproved, approved.Status)
		assert.Equal(t, existing.ID, proj.ID)
		mockReqRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		materializer.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejected request cannot be approved", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, nil)

		req := pendingRequest()
		req.Status = domain.RequestRejected
		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()

		_, _, err := svc.Approve(ctx, req.ID, reviewer, domain.ReviewRequestInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		mockReqRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Materialization failure aborts the approval", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		materializer := new(materializerMock)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, materializer, nil)

		req := pendingRequest()
		matErr := &domain.MaterializationError{RequestID: req.ID.String(), Err: errors.New("no templates")}

		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()
		mockReqRepo.On("UpdateStatus", ctx, req.ID, domain.RequestApproved, &reviewer, (*string)(nil)).Return(nil).Once()
		materializer.On("Materialize", ctx, mock.Anything, mock.Anything).Return(nil, matErr).Once()

		_, _, err := svc.Approve(ctx, req.ID, reviewer, domain.ReviewRequestInput{})

		var gotErr *domain.MaterializationError
		assert.ErrorAs(t, err, &gotErr)
	})
}

func TestRequestService_Reject(t *testing.T) {
	ctx := context.Background()
	reviewer := uuid.New()

	t.Run("Requires a note", func(t *testing.T) {
		svc := request.NewService(&repository.Repositories{}, nil, nil)

		_, err := svc.Reject(ctx, uuid.New(), reviewer, domain.ReviewRequestInput{})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Success", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		mockNotifSvc := new(mocks.NotificationService)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, mockNotifSvc)

		req := &domain.ServiceRequest{ID: uuid.New(), Status: domain.RequestPending, RequestedBy: uuid.New()}
		note := stringPtr("Insufficient scope detail")

		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()
		mockReqRepo.On("UpdateStatus", ctx, req.ID, domain.RequestRejected, &reviewer, note).Return(nil).Once()
		mockNotifSvc.On("NotifyRequestStatus", mock.Anything, mock.Anything).Return(nil).Maybe()

		rejected, err := svc.Reject(ctx, req.ID, reviewer, domain.ReviewRequestInput{Note: note})

		assert.NoError(t, err)
		assert.Equal(t, domain.RequestRejected, rejected.Status)
		mockReqRepo.AssertExpectations(t)
	})
}

func TestRequestService_Cancel(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()

	t.Run("Owner can cancel pending request", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, nil)

		req := &domain.ServiceRequest{ID: uuid.New(), ClientID: clientID, Status: domain.RequestPending}
		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()
		mockReqRepo.On("UpdateStatus", ctx, req.ID, domain.RequestCancelled, (*uuid.UUID)(nil), (*string)(nil)).Return(nil).Once()

		cancelled, err := svc.Cancel(ctx, req.ID, clientUser(clientID))

		assert.NoError(t, err)
		assert.Equal(t, domain.RequestCancelled, cancelled.Status)
	})

	t.Run("Another client cannot cancel", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, nil)

		req := &domain.ServiceRequest{ID: uuid.New(), ClientID: clientID, Status: domain.RequestPending}
		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()

		_, err := svc.Cancel(ctx, req.ID, clientUser(uuid.New()))

		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockReqRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Terminal request cannot be cancelled", func(t *testing.T) {
		mockReqRepo := new(mocks.RequestRepository)
		repos := &repository.Repositories{Request: mockReqRepo}
		svc := request.NewService(repos, nil, nil)

		req := &domain.ServiceRequest{ID: uuid.New(), ClientID: clientID, Status: domain.RequestRejected}
		mockReqRepo.On("GetByIDForUpdate", ctx, req.ID).Return(req, nil).Once()

		_, err := svc.Cancel(ctx, req.ID, clientUser(clientID))

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
