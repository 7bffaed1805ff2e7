package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

func (h *Handlers) CreateMission(c *fiber.Ctx) error {
	trackID, err := parseID(c.Query("track_id"))
	if err != nil {
		return sendUnprocessable(c, "track_id is required")
	}
	title := c.Query("title")
	if title == "" {
		return sendUnprocessable(c, "title is required")
	}
	points, err := parseID(c.Query("points"))
	if err != nil || points < 0 {
		return sendUnprocessable(c, "points must be a non-negative integer")
	}

	if _, err := h.repos.Tracks.GetByID(c.Context(), trackID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Track not found")
		}
		logger.LogError("Failed to look up track", err)
		return sendInternalError(c)
	}

	mission := &models.Mission{TrackID: trackID, Title: title, Points: points}
	if err := h.repos.Missions.Create(c.Context(), mission); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendBadRequest(c, "Mission already exists for this track")
		}
		logger.LogError("Failed to create mission", err)
		return sendInternalError(c)
	}

	return c.Status(http.StatusCreated).JSON(mission)
}

func (h *Handlers) GetMissions(c *fiber.Ctx) error {
	missions, err := h.repos.Missions.GetAll(c.Context())
	if err != nil {
		logger.LogError("Failed to list missions", err)
		return sendInternalError(c)
	}
	return c.JSON(missions)
}

func (h *Handlers) GetMission(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid mission id")
	}

	mission, err := h.repos.Missions.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Mission not found")
		}
		logger.LogError("Failed to get mission", err)
		return sendInternalError(c)
	}
	return c.JSON(mission)
}

// GetMissionsByTrack returns the missions belonging to one track. An unknown
// track is a 404 rather than an empty list so callers can tell the two apart.
func (h *Handlers) GetMissionsByTrack(c *fiber.Ctx) error {
	trackID, err := parseID(c.Params("trackId"))
	if err != nil {
		return sendUnprocessable(c, "invalid track id")
	}

	if _, err := h.repos.Tracks.GetByID(c.Context(), trackID); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Track not found")
		}
		logger.LogError("Failed to look up track", err)
		return sendInternalError(c)
	}

	missions, err := h.repos.Missions.GetByTrackID(c.Context(), trackID)
	if err != nil {
		logger.LogError("Failed to list missions for track", err)
		return sendInternalError(c)
	}
	return c.JSON(missions)
}

func (h *Handlers) UpdateMission(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid mission id")
	}

	mission, err := h.repos.Missions.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Mission not found")
		}
		logger.LogError("Failed to get mission", err)
		return sendInternalError(c)
	}

	if title := c.Query("title"); title != "" {
		mission.Title = title
	}
	if raw := c.Query("points"); raw != "" {
		points, err := parseID(raw)
		if err != nil || points < 0 {
			return sendUnprocessable(c, "points must be a non-negative integer")
		}
		mission.Points = points
	}

	if err := h.repos.Missions.Update(c.Context(), mission); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendBadRequest(c, "Mission already exists for this track")
		}
		logger.LogError("Failed to update mission", err)
		return sendInternalError(c)
	}
	return c.JSON(mission)
}

func (h *Handlers) DeleteMission(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid mission id")
	}

	if _, err := h.repos.Missions.GetByID(c.Context(), id); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Mission not found")
		}
		logger.LogError("Failed to look up mission", err)
		return sendInternalError(c)
	}

	if err := h.repos.Missions.Delete(c.Context(), id); err != nil {
		logger.LogError("Failed to delete mission", err)
		return sendInternalError(c)
	}
	return c.JSON(fiber.Map{"message": "Mission deleted"})
}
