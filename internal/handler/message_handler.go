package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/middleware"
	"irs-portal/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type createConversationInput struct {
	ClientID  uuid.UUID  `json:"client_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Subject   string     `json:"subject"`
}

func (h *MessageHandler) CreateConversation(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var input createConversationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	conv, err := h.messageService.CreateConversation(c.Context(), domain.CreateConversationInput{
		ProjectID: input.ProjectID,
		Subject:   input.Subject,
	}, input.ClientID, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(conv)
}

func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var clientID uuid.UUID
	if user.IsStaff() {
		id, err := uuid.Parse(c.Query("client_id"))
		if err != nil {
			return middleware.BadRequest("client_id is required")
		}
		clientID = id
	} else {
		if user.ClientID == nil {
			return domain.ErrForbidden
		}
		clientID = *user.ClientID
	}

	result, err := h.messageService.ListConversations(c.Context(), clientID, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid conversation ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	conv, err := h.messageService.GetConversation(c.Context(), id, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(conv)
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid conversation ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	result, err := h.messageService.ListMessages(c.Context(), id, user, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid conversation ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	msg, err := h.messageService.Send(c.Context(), id, input, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
