package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/middleware"
	"irs-portal/internal/service/document"
)

type DocumentHandler struct {
	documentService document.Service
}

func NewDocumentHandler(documentService document.Service) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("Missing file")
	}

	input := document.UploadInput{
		Title:           c.FormValue("title"),
		IsClientVisible: c.FormValue("is_client_visible") == "true",
	}

	doc, err := h.documentService.Upload(c.Context(), projectID, input, file, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	docs, err := h.documentService.List(c.Context(), projectID, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(docs)
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	documentID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return middleware.BadRequest("Invalid document ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	url, err := h.documentService.GetDownloadURL(c.Context(), documentID, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}
