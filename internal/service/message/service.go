package message

import (
	"context"
	"log"

	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/notification"
)

type Service interface {
	CreateConversation(ctx context.Context, input domain.CreateConversationInput, clientID uuid.UUID, owner *domain.User) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID, viewer *domain.User) (*domain.Conversation, error)
	ListConversations(ctx context.Context, clientID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Conversation], error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, viewer *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
	Send(ctx context.Context, conversationID uuid.UUID, input domain.SendMessageInput, sender *domain.User) (*domain.Message, error)
}

type service struct {
	repos    *repository.Repositories
	notifSvc notification.Service
}

func NewService(repos *repository.Repositories, notifSvc notification.Service) Service {
	return &service{repos: repos, notifSvc: notifSvc}
}

// CreateConversation opens a thread between a client and the staff member
// who owns it. Only staff open threads, so a client-originated message always
// has at least one staff recipient.
func (s *service) CreateConversation(ctx context.Context, input domain.CreateConversationInput, clientID uuid.UUID, owner *domain.User) (*domain.Conversation, error) {
	if input.Subject == "" {
		return nil, domain.NewValidationError("subject", "required")
	}
	if !owner.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.repos.Client.GetByID(ctx, clientID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.NewValidationError("client_id", "unknown client")
		}
		return nil, err
	}
	if input.ProjectID != nil {
		proj, err := s.repos.Project.GetByID(ctx, *input.ProjectID)
		if err != nil {
			if err == domain.ErrNotFound {
				return nil, domain.NewValidationError("project_id", "unknown project")
			}
			return nil, err
		}
		if proj.ClientID != clientID {
			return nil, domain.NewValidationError("project_id", "project belongs to another client")
		}
	}

	conv := &domain.Conversation{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		ClientID:    clientID,
		OwnerUserID: owner.ID,
		Subject:     input.Subject,
	}

	err := s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Conversation.Create(ctx, conv); err != nil {
			return err
		}
		return txRepos.Conversation.AddParticipant(ctx, conv.ID, owner.ID)
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) GetConversation(ctx context.Context, id uuid.UUID, viewer *domain.User) (*domain.Conversation, error) {
	conv, err := s.repos.Conversation.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkConversationAccess(conv, viewer); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *service) ListConversations(ctx context.Context, clientID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Conversation], error) {
	params.Validate()
	convs, total, err := s.repos.Conversation.ListByClient(ctx, clientID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Conversation]{}, err
	}
	return domain.NewPaginatedResponse(convs, params.Page, params.PageSize, total), nil
}

func (s *service) ListMessages(ctx context.Context, conversationID uuid.UUID, viewer *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	conv, err := s.repos.Conversation.GetByID(ctx, conversationID)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	if err := checkConversationAccess(conv, viewer); err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	params.Validate()

	msgs, total, err := s.repos.Conversation.ListMessages(ctx, conversationID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	return domain.NewPaginatedResponse(msgs, params.Page, params.PageSize, total), nil
}

func (s *service) Send(ctx context.Context, conversationID uuid.UUID, input domain.SendMessageInput, sender *domain.User) (*domain.Message, error) {
	if input.Body == "" {
		return nil, domain.NewValidationError("body", "required")
	}

	conv, err := s.repos.Conversation.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := checkConversationAccess(conv, sender); err != nil {
		return nil, err
	}

	senderType := domain.SenderClient
	if sender.IsStaff() {
		senderType = domain.SenderStaff
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       sender.ID,
		SenderType:     senderType,
		Body:           input.Body,
	}

	err = s.repos.WithinTransaction(ctx, func(txRepos *repository.Repositories) error {
		if err := txRepos.Conversation.CreateMessage(ctx, msg); err != nil {
			return err
		}
		// Staff who join an existing thread become participants and receive
		// future client replies.
		if senderType == domain.SenderStaff {
			return txRepos.Conversation.AddParticipant(ctx, conversationID, sender.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		go func(conv domain.Conversation, msg domain.Message) {
			ctx := context.Background()
			if err := s.notifSvc.NotifyMessage(ctx, &conv, &msg); err != nil {
				log.Printf("Failed to notify message: %v", err)
			}
		}(*conv, *msg)
	}
	return msg, nil
}

func checkConversationAccess(conv *domain.Conversation, user *domain.User) error {
	if user.IsStaff() {
		return nil
	}
	if user.ClientID == nil || *user.ClientID != conv.ClientID {
		return domain.ErrForbidden
	}
	return nil
}
