package unit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"irs-portal/internal/domain"
	"irs-portal/internal/service/notification"
	"irs-portal/tests/mocks"
)

type fanoutMocks struct {
	notif   *mocks.NotificationRepository
	user    *mocks.UserRepository
	project *mocks.ProjectRepository
	conv    *mocks.ConversationRepository
	svc     notification.Service
}

func newFanoutMocks() *fanoutMocks {
	m := &fanoutMocks{
		notif:   new(mocks.NotificationRepository),
		user:    new(mocks.UserRepository),
		project: new(mocks.ProjectRepository),
		conv:    new(mocks.ConversationRepository),
	}
	m.svc = notification.NewService(m.notif, m.user, m.project, m.conv, nil, nil)
	return m
}

func TestNotifyDocumentAdded_InternalDocumentIsSilent(t *testing.T) {
	m := newFanoutMocks()

	doc := &domain.ProjectDocument{
		ID:              uuid.New(),
		ProjectID:       uuid.New(),
		Title:           "Internal cost breakdown",
		IsClientVisible: false,
	}

	err := m.svc.NotifyDocumentAdded(context.Background(), doc)

	assert.NoError(t, err)
	m.project.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.notif.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotifyDocumentAdded_VisibleDocumentNotifiesPrimaryContact(t *testing.T) {
	ctx := context.Background()
	m := newFanoutMocks()

	clientID := uuid.New()
	proj := &domain.Project{ID: uuid.New(), ClientID: clientID, ProjectName: "Pipeline Survey", TrackingCode: "IRS-ABCDEFGHJK"}
	contact := &domain.User{ID: uuid.New(), ClientID: &clientID, Role: "client"}
	doc := &domain.ProjectDocument{ID: uuid.New(), ProjectID: proj.ID, Title: "Survey Report", IsClientVisible: true}

	m.project.On("GetByID", ctx, proj.ID).Return(proj, nil).Once()
	m.user.On("GetPrimaryContact", ctx, clientID).Return(contact, nil).Once()
	m.notif.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == contact.ID &&
			n.Type == domain.NotifDocument &&
			n.SourceKey == fmt.Sprintf("document_added:%s:%s", doc.ID, contact.ID)
	})).Return(true, nil).Once()

	err := m.svc.NotifyDocumentAdded(ctx, doc)

	assert.NoError(t, err)
	m.notif.AssertExpectations(t)
}

func TestNotifyRequestStatus_OnlyTerminalReviewStatesNotify(t *testing.T) {
	m := newFanoutMocks()

	req := &domain.ServiceRequest{ID: uuid.New(), Status: domain.RequestPending}
	err := m.svc.NotifyRequestStatus(context.Background(), req)

	assert.NoError(t, err)
	m.user.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.notif.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotifyRequestStatus_DuplicateDeliverySuppressed(t *testing.T) {
	ctx := context.Background()
	m := newFanoutMocks()

	requester := &domain.User{ID: uuid.New(), Role: "client"}
	req := &domain.ServiceRequest{
		ID:          uuid.New(),
		RequestedBy: requester.ID,
		Category:    domain.CategoryManning,
		Status:      domain.RequestApproved,
	}

	m.user.On("GetByID", ctx, requester.ID).Return(requester, nil).Once()
	// Insert hits the source_key conflict: no new row, no error.
	m.notif.On("Create", ctx, mock.Anything).Return(false, nil).Once()

	err := m.svc.NotifyRequestStatus(ctx, req)

	assert.NoError(t, err)
	m.notif.AssertExpectations(t)
}

func TestNotifyMessage_ClientMessageReachesOwnerAndParticipantsOnce(t *testing.T) {
	ctx := context.Background()
	m := newFanoutMocks()

	owner := uuid.New()
	otherStaff := uuid.New()
	conv := &domain.Conversation{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		OwnerUserID: owner,
		Subject:     "Mobilization schedule",
	}
	msg := &domain.Message{ID: uuid.New(), ConversationID: conv.ID, SenderType: domain.SenderClient}

	// The owner also appears as a participant; they must get one
	// notification, not two.
	m.conv.On("ListStaffParticipants", ctx, conv.ID).Return([]uuid.UUID{owner, otherStaff}, nil).Once()
	m.notif.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == owner || n.UserID == otherStaff
	})).Return(true, nil).Times(2)

	err := m.svc.NotifyMessage(ctx, conv, msg)

	assert.NoError(t, err)
	m.notif.AssertExpectations(t)
	m.notif.AssertNumberOfCalls(t, "Create", 2)
}

func TestNotifyMessage_StaffMessageGoesToClientContact(t *testing.T) {
	ctx := context.Background()
	m := newFanoutMocks()

	clientID := uuid.New()
	contact := &domain.User{ID: uuid.New(), ClientID: &clientID, Role: "client"}
	conv := &domain.Conversation{ID: uuid.New(), ClientID: clientID, OwnerUserID: uuid.New(), Subject: "Invoicing"}
	msg := &domain.Message{ID: uuid.New(), ConversationID: conv.ID, SenderType: domain.SenderStaff}

	m.user.On("GetPrimaryContact", ctx, clientID).Return(contact, nil).Once()
	m.notif.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == contact.ID && n.Type == domain.NotifMessage
	})).Return(true, nil).Once()

	err := m.svc.NotifyMessage(ctx, conv, msg)

	assert.NoError(t, err)
	m.notif.AssertExpectations(t)
	m.conv.AssertNotCalled(t, "ListStaffParticipants", mock.Anything, mock.Anything)
}

func TestMarkCategoryRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Unknown type rejected", func(t *testing.T) {
		m := newFanoutMocks()

		_, err := m.svc.MarkCategoryRead(ctx, userID, "promotions")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		m.notif.AssertNotCalled(t, "MarkTypeAsRead", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bulk clears one type", func(t *testing.T) {
		m := newFanoutMocks()
		m.notif.On("MarkTypeAsRead", ctx, userID, domain.NotifMessage).Return(int64(4), nil).Once()

		affected, err := m.svc.MarkCategoryRead(ctx, userID, domain.NotifMessage)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), affected)
		m.notif.AssertExpectations(t)
	})
}
