package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/middleware"
	"irs-portal/internal/service/activity"
	"irs-portal/internal/service/project"
)

type ProjectHandler struct {
	projectService  project.Service
	activityService activity.Service
}

func NewProjectHandler(projectService project.Service, activityService activity.Service) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, activityService: activityService}
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var input project.CreateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	proj, err := h.projectService.Create(c.Context(), input, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(proj)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	view, err := h.projectService.Get(c.Context(), id)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user != nil && !user.IsStaff() {
		if user.ClientID == nil || *user.ClientID != view.Project.ClientID {
			return domain.ErrForbidden
		}
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var status *domain.ProjectStatus
	if s := c.Query("status"); s != "" {
		st := domain.ProjectStatus(s)
		status = &st
	}

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

	result, err := h.projectService.List(c.Context(), clientID, status, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

type updateStatusInput struct {
	Status domain.ProjectStatus `json:"status"`
}

func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	var input updateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	proj, err := h.projectService.UpdateStatus(c.Context(), id, input.Status, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(proj)
}

type toggleMilestoneInput struct {
	Completed bool `json:"completed"`
}

func (h *ProjectHandler) ToggleMilestone(c *fiber.Ctx) error {
	milestoneID, err := uuid.Parse(c.Params("milestoneId"))
	if err != nil {
		return middleware.BadRequest("Invalid milestone ID")
	}

	var input toggleMilestoneInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	milestone, err := h.projectService.ToggleMilestone(c.Context(), milestoneID, input.Completed, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(milestone)
}

func (h *ProjectHandler) ListActivity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	entries, err := h.activityService.ListByProject(c.Context(), id, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}

func (h *ProjectHandler) AddActivity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid project ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var input activity.AddActivityInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	entry, err := h.activityService.Add(c.Context(), id, input, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
