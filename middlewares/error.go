package middlewares

import (
	"errors"
	"log/slog"

	"quizhub-backend/queue"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NewErrorHandler centralizes error responses and keeps messages sanitized.
func NewErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Fiber errors (use their status code + message)
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		// 2) Validation errors (400 + per-field info)
		if ve, ok := err.(validator.ValidationErrors); ok {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				out[fe.Field()] = fe.Tag()
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "all fields are required",
				"fields": out,
			})
		}

		// 3) Missing rows that escaped the handler
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}

		// 4) Broker down: tell the caller to retry later
		if errors.Is(err, queue.ErrQueueUnavailable) {
			log.Warn("request rejected, queue unavailable", "path", c.Path())
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "question queue unavailable, try again later",
			})
		}

		// 5) Unknown errors (500, detail stays in the log)
		log.Error("internal error", "path", c.Path(), "method", c.Method(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
