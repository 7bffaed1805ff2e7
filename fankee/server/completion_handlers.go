package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

// CreateCompletedMission records that a user finished a mission. The same
// user/mission pair can only be recorded once; a repeat attempt is a 409.
func (h *Handlers) CreateCompletedMission(c *fiber.Ctx) error {
	userID, err := parseID(c.Query("user_id"))
	if err != nil {
		return sendUnprocessable(c, "user_id is required")
	}
	missionID, err := parseID(c.Query("mission_id"))
	if err != nil {
		return sendUnprocessable(c, "mission_id is required")
	}

	if _, err := h.repos.Users.GetByID(c.Context(), userID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to look up user", err)
		return sendInternalError(c)
	}
	if _, err := h.repos.Missions.GetByID(c.Context(), missionID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Mission not found")
		}
		logger.LogError("Failed to look up mission", err)
		return sendInternalError(c)
	}

	completion := &models.CompletedMission{UserID: userID, MissionID: missionID}
	if err := h.repos.Completions.Create(c.Context(), completion); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendConflict(c, "Mission already completed by this user")
		}
		logger.LogError("Failed to record completion", err)
		return sendInternalError(c)
	}

	return c.Status(http.StatusCreated).JSON(completion)
}

func (h *Handlers) GetCompletedMissions(c *fiber.Ctx) error {
	completions, err := h.repos.Completions.GetAll(c.Context())
	if err != nil {
		logger.LogError("Failed to list completions", err)
		return sendInternalError(c)
	}
	return c.JSON(completions)
}

func (h *Handlers) GetCompletedMissionsByUser(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("userId"))
	if err != nil {
		return sendUnprocessable(c, "invalid user id")
	}

	if _, err := h.repos.Users.GetByID(c.Context(), userID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to look up user", err)
		return sendInternalError(c)
	}

	completions, err := h.repos.Completions.GetByUserID(c.Context(), userID)
	if err != nil {
		logger.LogError("Failed to list completions for user", err)
		return sendInternalError(c)
	}
	return c.JSON(completions)
}

func (h *Handlers) GetCompletedMission(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid completion id")
	}

	completion, err := h.repos.Completions.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Completed mission not found")
		}
		logger.LogError("Failed to get completion", err)
		return sendInternalError(c)
	}
	return c.JSON(completion)
}

func (h *Handlers) DeleteCompletedMission(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid completion id")
	}

	if _, err := h.repos.Completions.GetByID(c.Context(), id); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Completed mission not found")
		}
		logger.LogError("Failed to look up completion", err)
		return sendInternalError(c)
	}

	if err := h.repos.Completions.Delete(c.Context(), id); err != nil {
		logger.LogError("Failed to delete completion", err)
		return sendInternalError(c)
	}
	return c.JSON(fiber.Map{"message": "Completed mission deleted"})
}

// GetUserPoints responds with a bare JSON number, the user's point total.
func (h *Handlers) GetUserPoints(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("userId"))
	if err != nil {
		return sendUnprocessable(c, "invalid user id")
	}

	if _, err := h.repos.Users.GetByID(c.Context(), userID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "User not found")
		}
		logger.LogError("Failed to look up user", err)
		return sendInternalError(c)
	}

	points, err := h.repos.Completions.GetUserPoints(c.Context(), userID)
	if err != nil {
		logger.LogError("Failed to sum user points", err)
		return sendInternalError(c)
	}
	return c.JSON(points)
}

func (h *Handlers) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := h.repos.Completions.GetLeaderboard(c.Context())
	if err != nil {
		logger.LogError("Failed to build leaderboard", err)
		return sendInternalError(c)
	}
	return c.JSON(entries)
}
