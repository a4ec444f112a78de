package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Template     TemplateRepository
	Request      RequestRepository
	Project      ProjectRepository
	Milestone    MilestoneRepository
	Notification NotificationRepository
	Document     DocumentRepository
	Conversation ConversationRepository
	Activity     ActivityRepository
	Session      SessionRepository

	db *sqlx.DB
}

func NewRepositories(db *sqlx.DB) *Repositories {
	r := newRepositories(db)
	r.db = db
	return r
}

func newRepositories(ext sqlx.ExtContext) *Repositories {
	return &Repositories{
		User:         NewUserRepository(ext),
		Client:       NewClientRepository(ext),
		Template:     NewTemplateRepository(ext),
		Request:      NewRequestRepository(ext),
		Project:      NewProjectRepository(ext),
		Milestone:    NewMilestoneRepository(ext),
		Notification: NewNotificationRepository(ext),
		Document:     NewDocumentRepository(ext),
		Conversation: NewConversationRepository(ext),
		Activity:     NewActivityRepository(ext),
		Session:      NewSessionRepository(ext),
	}
}

// WithinTransaction runs fn against a repository set bound to a single
// database transaction. The approve+materialize path depends on this: if fn
// returns an error, every write inside it rolls back.
func (r *Repositories) WithinTransaction(ctx context.Context, fn func(*Repositories) error) error {
	if r.db == nil {
		// Already inside a transaction; nested calls join it.
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(newRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
