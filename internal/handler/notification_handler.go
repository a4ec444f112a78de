package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/middleware"
	"irs-portal/internal/service/badge"
	"irs-portal/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
	badges       *badge.Aggregator
}

func NewNotificationHandler(notifService notification.Service, badges *badge.Aggregator) *NotificationHandler {
	return &NotificationHandler{notifService: notifService, badges: badges}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.Context(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) ListRecent(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	notifications, err := h.notifService.ListRecent(c.Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

// GetUnreadCounts serves the per-type badge map through the aggregator so
// repeated polls between notification changes don't hit the database.
func (h *NotificationHandler) GetUnreadCounts(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	counts, err := h.badges.Counts(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(counts)
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}
	userID := middleware.GetCurrentUserID(c)

	if err := h.notifService.MarkAsRead(c.Context(), notifID, userID); err != nil {
		return err
	}
	h.badges.Invalidate(userID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}
	h.badges.Invalidate(userID)
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkCategoryRead clears one badge: every unread notification of the given
// type for the current user.
func (h *NotificationHandler) MarkCategoryRead(c *fiber.Ctx) error {
	notifType := domain.NotificationType(c.Params("type"))
	userID := middleware.GetCurrentUserID(c)

	affected, err := h.notifService.MarkCategoryRead(c.Context(), userID, notifType)
	if err != nil {
		return err
	}
	h.badges.Invalidate(userID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"marked_read": affected})
}
