package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"irs-portal/internal/domain"
	"irs-portal/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Template     *TemplateHandler
	Request      *RequestHandler
	Project      *ProjectHandler
	Document     *DocumentHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Public       *PublicHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Template:     NewTemplateHandler(services.Template),
		Request:      NewRequestHandler(services.Request),
		Project:      NewProjectHandler(services.Project, services.Activity),
		Document:     NewDocumentHandler(services.Document),
		Message:      NewMessageHandler(services.Message),
		Notification: NewNotificationHandler(services.Notification, services.Badges),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Public:       NewPublicHandler(services.Tracking),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 {
		params.PageSize = pageSize
	}
	params.Validate()
	return params
}
