package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"irs-portal/internal/domain"
	"irs-portal/internal/service/auth"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler maps service-layer errors onto HTTP responses. Handlers
// return domain errors as-is and never build status codes themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		matErr        *domain.MaterializationError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: validationErr.Reason,
			Field:   validationErr.Field,
		})

	case errors.Is(err, domain.ErrTrackingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Tracking code not found",
		})

	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Resource not found",
		})

	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Code:    "CONFLICT",
			Message: "The requested status change is not allowed from the current state",
		})

	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "You do not have access to this resource",
		})

	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Invalid email or password",
		})

	case errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Invalid or expired token",
		})

	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "The service is temporarily unavailable, please retry",
		})

	case errors.As(err, &matErr):
		traceID := uuid.New().String()[:8]
		log.Printf("[%s] %v", traceID, matErr)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "MATERIALIZATION_FAILED",
			Message: "Approval could not be completed; the request was left pending",
			TraceID: traceID,
		})

	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Code:    codeForStatus(fiberErr.Code),
			Message: fiberErr.Message,
		})
	}

	traceID := uuid.New().String()[:8]
	log.Printf("[%s] Unhandled error: %v", traceID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		TraceID: traceID,
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}
