package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// sendDetail writes the API's error body shape.
func sendDetail(c *fiber.Ctx, statusCode int, detail string) error {
	return c.Status(statusCode).JSON(fiber.Map{"detail": detail})
}

func sendNotFound(c *fiber.Ctx, detail string) error {
	return sendDetail(c, http.StatusNotFound, detail)
}

func sendConflict(c *fiber.Ctx, detail string) error {
	return sendDetail(c, http.StatusConflict, detail)
}

func sendBadRequest(c *fiber.Ctx, detail string) error {
	return sendDetail(c, http.StatusBadRequest, detail)
}

// sendUnprocessable reports invalid request parameters.
func sendUnprocessable(c *fiber.Ctx, detail string) error {
	return sendDetail(c, http.StatusUnprocessableEntity, detail)
}

func sendInternalError(c *fiber.Ctx) error {
	return sendDetail(c, http.StatusInternalServerError, "Internal server error")
}
