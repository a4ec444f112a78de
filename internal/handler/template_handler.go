package handler

import (
	"github.com/gofiber/fiber/v2"

	"irs-portal/internal/domain"
	"irs-portal/internal/middleware"
	"irs-portal/internal/service/template"
)

type TemplateHandler struct {
	templateService template.Service
}

func NewTemplateHandler(templateService template.Service) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) ListAll(c *fiber.Ctx) error {
	templates, err := h.templateService.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(templates)
}

func (h *TemplateHandler) ListByCategory(c *fiber.Ctx) error {
	category := domain.ServiceCategory(c.Params("category"))

	templates, err := h.templateService.ListByCategory(c.Context(), category)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(templates)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	category := domain.ServiceCategory(c.Params("category"))

	var input domain.UpdateTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	templates, err := h.templateService.Update(c.Context(), category, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(templates)
}
