package handler

import (
	"github.com/gofiber/fiber/v2"

	"irs-portal/internal/service/tracking"
)

// PublicHandler serves the unauthenticated tracking endpoint. Everything it
// returns comes pre-sanitized from the tracking service.
type PublicHandler struct {
	trackingService tracking.Service
}

func NewPublicHandler(trackingService tracking.Service) *PublicHandler {
	return &PublicHandler{trackingService: trackingService}
}

func (h *PublicHandler) Track(c *fiber.Ctx) error {
	view, err := h.trackingService.Resolve(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(view)
}
