package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/email"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	MarkCategoryRead(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType) (int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	GetUnreadCounts(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error)

	NotifyRequestSubmitted(ctx context.Context, req *domain.ServiceRequest) error
	NotifyRequestStatus(ctx context.Context, req *domain.ServiceRequest) error
	NotifyDocumentAdded(ctx context.Context, doc *domain.ProjectDocument) error
	NotifyMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message) error
	NotifyMilestoneCompleted(ctx context.Context, project *domain.Project, milestone *domain.Milestone) error
}

type service struct {
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	convRepo    repository.ConversationRepository
	redis       *redis.Client
	emailSvc    email.Service
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	convRepo repository.ConversationRepository,
	redisClient *redis.Client,
	emailSvc email.Service,
) Service {
	return &service{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		convRepo:    convRepo,
		redis:       redisClient,
		emailSvc:    emailSvc,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	return s.notifRepo.ListRecent(ctx, userID, limit)
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.publishChanged(ctx)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.publishChanged(ctx)
	return nil
}

func (s *service) MarkCategoryRead(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType) (int64, error) {
	if !notifType.IsValid() {
		return 0, domain.NewValidationError("type", "unknown notification type")
	}
	affected, err := s.notifRepo.MarkTypeAsRead(ctx, userID, notifType)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.publishChanged(ctx)
	}
	return affected, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) GetUnreadCounts(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error) {
	return s.notifRepo.CountUnreadByType(ctx, userID)
}

// publishChanged broadcasts a coarse "the notification table changed" signal.
// The payload is deliberately empty of recipient detail: subscribers re-query
// their own unread set rather than trusting the event.
func (s *service) publishChanged(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Publish(ctx, domain.NotificationsChangedChannel, "changed").Err(); err != nil {
		log.Printf("Failed to publish notification change signal: %v", err)
	}
}

// create inserts one notification and broadcasts if a row actually landed.
// Duplicate deliveries of the same source event are suppressed by source_key.
func (s *service) create(ctx context.Context, notif *domain.Notification) error {
	created, err := s.notifRepo.Create(ctx, notif)
	if err != nil {
		return err
	}
	if created {
		s.publishChanged(ctx)
	}
	return nil
}

func (s *service) NotifyRequestSubmitted(ctx context.Context, req *domain.ServiceRequest) error {
	recipients, err := s.userRepo.GetByRoles(ctx, []domain.UserRole{domain.RoleStaff, domain.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to get staff recipients: %w", err)
	}

	link := "/dashboard/requests/" + req.ID.String()
	for _, user := range recipients {
		notif := &domain.Notification{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      domain.NotifServiceRequest,
			Title:     "New Service Request",
			Message:   fmt.Sprintf("A new %s request is awaiting review", req.Category.Label()),
			Link:      &link,
			SourceKey: fmt.Sprintf("request_submitted:%s:%s", req.ID, user.ID),
		}
		if err := s.create(ctx, notif); err != nil {
			log.Printf("Failed to create notification for user %s: %v", user.ID, err)
		}
	}
	return nil
}

func (s *service) NotifyRequestStatus(ctx context.Context, req *domain.ServiceRequest) error {
	if req.Status != domain.RequestApproved && req.Status != domain.RequestRejected {
		return nil
	}

	recipient, err := s.userRepo.GetByID(ctx, req.RequestedBy)
	if err != nil {
		return fmt.Errorf("failed to get requester: %w", err)
	}

	statusLabel := "Approved"
	if req.Status == domain.RequestRejected {
		statusLabel = "Rejected"
	}

	link := "/portal/requests/" + req.ID.String()
	notif := &domain.Notification{
		ID:        uuid.New(),
		UserID:    recipient.ID,
		Type:      domain.NotifServiceRequest,
		Title:     "Service Request " + statusLabel,
		Message:   fmt.Sprintf("Your %s request has been %s", req.Category.Label(), statusLabel),
		Link:      &link,
		SourceKey: fmt.Sprintf("request_status:%s:%s:%s", req.Status, req.ID, recipient.ID),
	}
	if err := s.create(ctx, notif); err != nil {
		return err
	}

	if s.emailSvc != nil && recipient.Email != "" {
		go func(toEmail, name, category, status string) {
			ctx := context.Background()
			if err := s.emailSvc.SendRequestStatusEmail(ctx, toEmail, name, category, status); err != nil {
				log.Printf("Failed to send request status email: %v", err)
			}
		}(recipient.Email, recipient.FullName, req.Category.Label(), statusLabel)
	}
	return nil
}

// NotifyDocumentAdded applies the visibility gate: internal documents never
// produce a client notification, client-visible ones produce exactly one,
// addressed to the client's primary contact.
func (s *service) NotifyDocumentAdded(ctx context.Context, doc *domain.ProjectDocument) error {
	if !doc.IsClientVisible {
		return nil
	}

	project, err := s.projectRepo.GetByID(ctx, doc.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	contact, err := s.userRepo.GetPrimaryContact(ctx, project.ClientID)
	if err != nil {
		return fmt.Errorf("failed to get client contact: %w", err)
	}

	link := "/portal/projects/" + project.TrackingCode
	notif := &domain.Notification{
		ID:        uuid.New(),
		UserID:    contact.ID,
		Type:      domain.NotifDocument,
		Title:     "New Document Available",
		Message:   fmt.Sprintf("%q was added to project %s", doc.Title, project.ProjectName),
		Link:      &link,
		SourceKey: fmt.Sprintf("document_added:%s:%s", doc.ID, contact.ID),
	}
	if err := s.create(ctx, notif); err != nil {
		return err
	}

	if s.emailSvc != nil && contact.Email != "" {
		go func(toEmail, name, projectName, title string) {
			ctx := context.Background()
			if err := s.emailSvc.SendDocumentAddedEmail(ctx, toEmail, name, projectName, title); err != nil {
				log.Printf("Failed to send document email: %v", err)
			}
		}(contact.Email, contact.FullName, project.ProjectName, doc.Title)
	}
	return nil
}

func (s *service) NotifyMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message) error {
	if msg.SenderType == domain.SenderStaff {
		return s.notifyClientMessage(ctx, conv, msg)
	}
	return s.notifyStaffMessage(ctx, conv, msg)
}

func (s *service) notifyClientMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message) error {
	contact, err := s.userRepo.GetPrimaryContact(ctx, conv.ClientID)
	if err != nil {
		return fmt.Errorf("failed to get client contact: %w", err)
	}

	link := "/portal/messages/" + conv.ID.String()
	notif := &domain.Notification{
		ID:        uuid.New(),
		UserID:    contact.ID,
		Type:      domain.NotifMessage,
		Title:     "New Message",
		Message:   fmt.Sprintf("You have a new message in %q", conv.Subject),
		Link:      &link,
		SourceKey: fmt.Sprintf("message:%s:%s", msg.ID, contact.ID),
	}
	if err := s.create(ctx, notif); err != nil {
		return err
	}

	if s.emailSvc != nil && contact.Email != "" {
		go func(toEmail, name, subject string) {
			ctx := context.Background()
			if err := s.emailSvc.SendMessageEmail(ctx, toEmail, name, subject); err != nil {
				log.Printf("Failed to send message email: %v", err)
			}
		}(contact.Email, contact.FullName, conv.Subject)
	}
	return nil
}

// notifyStaffMessage routes a client-originated message to the staff side:
// every staff participant of the conversation, and always at least the owner.
func (s *service) notifyStaffMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message) error {
	participants, err := s.convRepo.ListStaffParticipants(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}

	recipients := make(map[uuid.UUID]bool, len(participants)+1)
	recipients[conv.OwnerUserID] = true
	for _, id := range participants {
		recipients[id] = true
	}

	link := "/dashboard/messages/" + conv.ID.String()
	for recipientID := range recipients {
		notif := &domain.Notification{
			ID:        uuid.New(),
			UserID:    recipientID,
			Type:      domain.NotifMessage,
			Title:     "New Client Message",
			Message:   fmt.Sprintf("New message in %q", conv.Subject),
			Link:      &link,
			SourceKey: fmt.Sprintf("message:%s:%s", msg.ID, recipientID),
		}
		if err := s.create(ctx, notif); err != nil {
			log.Printf("Failed to create notification for user %s: %v", recipientID, err)
		}
	}
	return nil
}

func (s *service) NotifyMilestoneCompleted(ctx context.Context, project *domain.Project, milestone *domain.Milestone) error {
	contact, err := s.userRepo.GetPrimaryContact(ctx, project.ClientID)
	if err != nil {
		return fmt.Errorf("failed to get client contact: %w", err)
	}

	link := "/portal/projects/" + project.TrackingCode
	notif := &domain.Notification{
		ID:        uuid.New(),
		UserID:    contact.ID,
		Type:      domain.NotifMilestone,
		Title:     "Milestone Completed",
		Message:   fmt.Sprintf("%q completed on project %s", milestone.MilestoneName, project.ProjectName),
		Link:      &link,
		SourceKey: fmt.Sprintf("milestone_completed:%s:%s", milestone.ID, contact.ID),
	}
	return s.create(ctx, notif)
}
