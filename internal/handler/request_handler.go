package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/middleware"
	"irs-portal/internal/service/request"
)

type RequestHandler struct {
	requestService request.Service
}

func NewRequestHandler(requestService request.Service) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.SubmitRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.requestService.Submit(c.Context(), input, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *RequestHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	req, err := h.requestService.Get(c.Context(), id)
	if err != nil {
		return err
	}

	// Clients only see their own company's requests.
	user := middleware.GetCurrentUser(c)
	if user != nil && !user.IsStaff() {
		if user.ClientID == nil || *user.ClientID != req.ClientID {
			return domain.ErrForbidden
		}
	}
	return c.Status(fiber.StatusOK).JSON(req)
}

func (h *RequestHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var status *domain.RequestStatus
	if s := c.Query("status"); s != "" {
		st := domain.RequestStatus(s)
		status = &st
	}

	// Clients are pinned to their own company; staff may filter by client.
	var clientID *uuid.UUID
	if !user.IsStaff() {
		clientID = user.ClientID
	} else if s := c.Query("client_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return middleware.BadRequest("Invalid client ID")
		}
		clientID = &id
	}

	result, err := h.requestService.List(c.Context(), status, clientID, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	var input domain.ReviewRequestInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return middleware.BadRequest("Invalid request body")
	}

	req, proj, err := h.requestService.Approve(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"request": req,
		"project": proj,
	})
}

func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	var input domain.ReviewRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.requestService.Reject(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(req)
}

func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	req, err := h.requestService.Cancel(c.Context(), id, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(req)
}
