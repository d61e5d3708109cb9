package handlers

import (
	"errors"
	"log"

	"secondarypro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto status codes. notFound is the message
// used for 404s and failure the one used for 500s.
func respondError(c *fiber.Ctx, err error, notFound, failure string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound,
		})
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid admin password",
		})
	default:
		log.Printf("%s: %v", failure, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": failure,
			"error":   err.Error(),
		})
	}
}

func badBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
