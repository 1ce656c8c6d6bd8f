package middlewares

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/database"
	"github.com/Darshit9241/billing-webiste-sub000/services"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) DTO validation errors (422 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Business rule rejections (400)
	var be *billing.ValidationError
	if errors.As(err, &be) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": be.Message,
			"field":   be.Field,
		})
	}

	// 4) Missing records
	switch {
	case errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, billing.ErrProductNotFound),
		errors.Is(err, billing.ErrPaymentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}

	if errors.Is(err, database.ErrOrderExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	}

	// 5) Partial bulk delete
	var bde *services.BulkDeleteError
	if errors.As(err, &bde) {
		log.Error().Err(bde.Err).Int("deleted", bde.Deleted).Strs("failed", bde.Failed).Msg("bulk delete incomplete")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "some orders could not be deleted",
			"deleted": bde.Deleted,
			"failed":  bde.Failed,
		})
	}

	// 6) Request deadline
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request timed out")
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"message": "request timed out"})
	}

	// 7) Unknown errors (500)
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
