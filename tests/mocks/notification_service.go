package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) MarkCategoryRead(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType) (int64, error) {
	args := m.Called(ctx, userID, notifType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetUnreadCounts(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.UnreadCounts), args.Error(1)
}

func (m *NotificationService) NotifyRequestSubmitted(ctx context.Context, req *domain.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *NotificationService) NotifyRequestStatus(ctx context.Context, req *domain.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *NotificationService) NotifyDocumentAdded(ctx context.Context, doc *domain.ProjectDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *NotificationService) NotifyMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message) error {
	args := m.Called(ctx, conv, msg)
	return args.Error(0)
}

func (m *NotificationService) NotifyMilestoneCompleted(ctx context.Context, project *domain.Project, milestone *domain.Milestone) error {
	args := m.Called(ctx, project, milestone)
	return args.Error(0)
}
