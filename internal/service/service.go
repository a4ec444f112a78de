package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"irs-portal/internal/config"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/activity"
	"irs-portal/internal/service/auth"
	"irs-portal/internal/service/badge"
	"irs-portal/internal/service/dashboard"
	"irs-portal/internal/service/document"
	"irs-portal/internal/service/email"
	"irs-portal/internal/service/message"
	"irs-portal/internal/service/notification"
	"irs-portal/internal/service/project"
	"irs-portal/internal/service/request"
	"irs-portal/internal/service/template"
	"irs-portal/internal/service/tracking"
)

type Services struct {
	Auth         auth.Service
	Template     template.Service
	Request      request.Service
	Project      project.Service
	Tracking     tracking.Service
	Document     document.Service
	Message      message.Service
	Activity     activity.Service
	Notification notification.Service
	Dashboard    dashboard.Service
	Badges       *badge.Aggregator
}

func NewServices(repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client, minioClient *minio.Client) *Services {
	var emailSvc email.Service
	if cfg.ResendAPIKey != "" {
		emailSvc = email.NewService(cfg)
	}

	notifSvc := notification.NewService(
		repos.Notification, repos.User, repos.Project, repos.Conversation,
		redisClient, emailSvc,
	)
	projectSvc := project.NewService(repos, notifSvc)

	return &Services{
		Auth:         auth.NewService(repos, cfg),
		Template:     template.NewService(repos),
		Request:      request.NewService(repos, projectSvc, notifSvc),
		Project:      projectSvc,
		Tracking:     tracking.NewService(repos, redisClient, cfg),
		Document:     document.NewService(repos, minioClient, notifSvc, cfg),
		Message:      message.NewService(repos, notifSvc),
		Activity:     activity.NewService(repos),
		Notification: notifSvc,
		Dashboard:    dashboard.NewService(repos, redisClient),
		Badges:       badge.NewAggregator(repos.Notification, redisClient),
	}
}
