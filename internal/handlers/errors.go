package handlers

import (
	"context"
	"errors"

	"backoffice/internal/filters"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/upstream"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps a service error onto the HTTP status returned to the client.
func statusFor(err error) int {
	var verr *services.ValidationError
	var serr *upstream.StatusError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDocumentSettingsMissing):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, upstream.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrNotFound),
		errors.Is(err, repositories.ErrSettingNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrAuthDisabled):
		return fiber.StatusNotFound
	case errors.Is(err, filters.ErrUnknownField),
		errors.Is(err, filters.ErrUnknownPreset),
		errors.Is(err, filters.ErrInvalidSort):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.As(err, &serr), errors.Is(err, upstream.ErrUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err in the {"message", "error"} shape. Validation
// failures also carry the per-field messages under "errors".
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		logger.Debug(message, zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		body["message"] = "Validation failed"
		body["errors"] = verr.Fields
	case errors.Is(err, services.ErrDocumentSettingsMissing):
		body["message"] = services.DocumentSettingsHint
	}
	return c.Status(status).JSON(body)
}

// invalidBody answers a request whose body could not be parsed.
func invalidBody(c *fiber.Ctx, logger *zap.Logger, err error) error {
	logger.Debug("error parsing request body", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func data(c *fiber.Ctx, v any) error {
	return c.JSON(fiber.Map{"data": v})
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
