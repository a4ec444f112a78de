package request

import (
	"context"
	"log"

	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/notification"
)

// Materializer creates the project for an approved request inside the
// approval transaction. Satisfied by the project service.
type Materializer interface {
	Materialize(ctx context.Context, repos *repository.Repositories, req *domain.ServiceRequest) (*domain.Project, error)
}

type Service interface {
	Submit(ctx context.Context, input domain.SubmitRequestInput, submitter *domain.User) (*domain.ServiceRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error)
	List(ctx context.Context, status *domain.RequestStatus, clientID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.ServiceRequest], error)
	Approve(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, input domain.ReviewRequestInput) (*domain.ServiceRequest, *domain.Project, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, input domain.ReviewRequestInput) (*domain.ServiceRequest, error)
	Cancel(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.ServiceRequest, error)
}

type service struct {
	repos        *repository.Repositories
	materializer Materializer
	notifSvc     notification.Service
}

func NewService(repos *repository.Repositories, materializer Materializer, notifSvc notification.Service) Service {
	return &service{repos: repos, materializer: materializer, notifSvc: notifSvc}
}

func (s *service) Submit(ctx context.Context, input domain.SubmitRequestInput, submitter *domain.User) (*domain.ServiceRequest, error) {
	if submitter.ClientID == nil {
		return nil, domain.ErrForbidden
	}
	if !input.Category.IsValid() {
		return nil, domain.NewValidationError("category", "unknown service category")
	}
	if len(input.Details) == 0 {
		return nil, domain.NewValidationError("details", "required")
	}
	if _, err := domain.DecodeRequestDetails(input.Category, input.Details); err != nil {
		return nil, err
	}

	req := &domain.ServiceRequest{
		ID:          uuid.New(),
		ClientID:    *submitter.ClientID,
		RequestedBy: submitter.ID,
		Category:    input.Category,
		Details:     input.Details,
		Description: input.Description,
		Status:      domain.RequestPending,
	}

	if err := s.repos.Request.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		go func(req domain.ServiceRequest) {
			ctx := context.Background()
			if err := s.notifSvc.NotifyRequestSubmitted(ctx, &req); err != nil {
				log.Printf("Failed to notify request submission: %v", err)
			}
		}(*req)
	}
	return req, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	return s.repos.Request.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status *domain.RequestStatus, clientID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.ServiceRequest], error) {
	if status != nil && !status.IsValid() {
		return domain.PaginatedResponse[domain.ServiceRequest]{}, domain.NewValidationError("status", "unknown request status")
	}
	params.Validate()

	requests, total, err := s.repos.Request.List(ctx, status, clientID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ServiceRequest]{}, err
	}
	return domain.NewPaginatedResponse(requests, params.Page, params.PageSize, total), nil
}

// Approve flips the request to approved and materializes its project in one
// transaction. A materialization failure rolls the status change back, so the
// request stays pending and approvable after the cause is fixed. Re-approving
// an already approved request is a no-op returning its existing project;
// rejected and cancelled requests stay unapprovable.
func (s *service) Approve(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, input domain.ReviewRequestInput) (*domain.ServiceRequest, *domain.Project, error) {
	var (
		req             *domain.ServiceRequest
		proj            *domain.Project
		alreadyApproved bool
	)

	err := s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		req, err = txRepos.Request.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Status == domain.RequestApproved {
			alreadyApproved = true
			proj, err = txRepos.Project.GetByRequestID(ctx, req.ID)
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestApproved) {
			return domain.ErrInvalidTransition
		}

		if err := txRepos.Request.UpdateStatus(ctx, id, domain.RequestApproved, &reviewer, input.Note); err != nil {
			return err
		}
		req.Status = domain.RequestApproved
		req.ReviewedBy = &reviewer
		req.ReviewNote = input.Note

		proj, err = s.materializer.Materialize(ctx, txRepos, req)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if !alreadyApproved {
		s.notifyStatus(req)
	}
	return req, proj, nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, input domain.ReviewRequestInput) (*domain.ServiceRequest, error) {
	if input.Note == nil || *input.Note == "" {
		return nil, domain.NewValidationError("note", "a rejection needs a reason")
	}

	var req *domain.ServiceRequest
	err := s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		req, err = txRepos.Request.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestRejected) {
			return domain.ErrInvalidTransition
		}

		if err := txRepos.Request.UpdateStatus(ctx, id, domain.RequestRejected, &reviewer, input.Note); err != nil {
			return err
		}
		req.Status = domain.RequestRejected
		req.ReviewedBy = &reviewer
		req.ReviewNote = input.Note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatus(req)
	return req, nil
}

// Cancel is the requester withdrawing their own pending request. Staff may
// cancel on a client's behalf.
func (s *service) Cancel(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.ServiceRequest, error) {
	var req *domain.ServiceRequest
	err := s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		req, err = txRepos.Request.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsStaff() {
			if actor.ClientID == nil || *actor.ClientID != req.ClientID {
				return domain.ErrForbidden
			}
		}
		if !req.Status.CanTransitionTo(domain.RequestCancelled) {
			return domain.ErrInvalidTransition
		}

		if err := txRepos.Request.UpdateStatus(ctx, id, domain.RequestCancelled, nil, nil); err != nil {
			return err
		}
		req.Status = domain.RequestCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) notifyStatus(req *domain.ServiceRequest) {
	if s.notifSvc == nil {
		return
	}
	go func(req domain.ServiceRequest) {
		ctx := context.Background()
		if err := s.notifSvc.NotifyRequestStatus(ctx, &req); err != nil {
			log.Printf("Failed to notify request status: %v", err)
		}
	}(*req)
}
