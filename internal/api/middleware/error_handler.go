package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// ErrorHandler turns errors escaping a handler into the JSON error
// envelope. The top-level "status" and "message" keys are what the
// kiosk frontend consumes; the nested "error" object carries the
// machine-readable code for API clients.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorEnvelope("HTTP_ERROR", fiberErr.Message))
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("internal error",
					slog.String("code", appErr.Code),
					slog.String("message", appErr.Message),
					slog.Any("error", appErr.Err),
				)
			}

			return c.Status(appErr.StatusCode).JSON(errorEnvelope(appErr.Code, appErr.Message))
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(errorEnvelope("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}

func errorEnvelope(code, message string) fiber.Map {
	return fiber.Map{
		"status":  "error",
		"message": message,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	}
}
