package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	nickname := c.Query("nickname")
	if nickname == "" {
		return sendUnprocessable(c, "nickname is required")
	}

	user := &models.User{Nickname: nickname}
	if err := h.repos.Users.Create(c.Context(), user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendBadRequest(c, "Nickname already exists")
		}
		logger.LogError("Failed to create user", err)
		return sendInternalError(c)
	}

	return c.Status(http.StatusCreated).JSON(user)
}

func (h *Handlers) GetUsers(c *fiber.Ctx) error {
	users, err := h.repos.Users.GetAll(c.Context())
	if err != nil {
		logger.LogError("Failed to list users", err)
		return sendInternalError(c)
	}
	return c.JSON(users)
}

func (h *Handlers) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid user id")
	}

	user, err := h.repos.Users.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to get user", err)
		return sendInternalError(c)
	}
	return c.JSON(user)
}

func (h *Handlers) GetUserByNickname(c *fiber.Ctx) error {
	nickname, err := unescapeParam(c, "nickname")
	if err != nil {
		return sendUnprocessable(c, "invalid nickname")
	}

	user, err := h.repos.Users.GetByNickname(c.Context(), nickname)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to get user by nickname", err)
		return sendInternalError(c)
	}
	return c.JSON(user)
}

func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid user id")
	}

	if _, err := h.repos.Users.GetByID(c.Context(), id); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to look up user", err)
		return sendInternalError(c)
	}

	if err := h.repos.Users.Delete(c.Context(), id); err != nil {
		logger.LogError("Failed to delete user", err)
		return sendInternalError(c)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
