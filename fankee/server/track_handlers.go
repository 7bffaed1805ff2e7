package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
)

func (h *Handlers) CreateTrack(c *fiber.Ctx) error {
	title := c.Query("title")
	artistName := c.Query("artist_name")
	if title == "" || artistName == "" {
		return sendUnprocessable(c, "title and artist_name are required")
	}

	track := &models.Track{Title: title, ArtistName: artistName}
	if err := h.repos.Tracks.Create(c.Context(), track); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendBadRequest(c, "Track already exists")
		}
		logger.LogError("Failed to create track", err)
		return sendInternalError(c)
	}

	return c.Status(http.StatusCreated).JSON(track)
}

func (h *Handlers) GetTracks(c *fiber.Ctx) error {
	tracks, err := h.repos.Tracks.GetAll(c.Context())
	if err != nil {
		logger.LogError("Failed to list tracks", err)
		return sendInternalError(c)
	}
	return c.JSON(tracks)
}

func (h *Handlers) GetTrack(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid track id")
	}

	track, err := h.repos.Tracks.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Track not found")
		}
		logger.LogError("Failed to get track", err)
		return sendInternalError(c)
	}
	return c.JSON(track)
}

func (h *Handlers) UpdateTrack(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid track id")
	}

	track, err := h.repos.Tracks.GetByID(c.Context(), id)
	if err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Track not found")
		}
		logger.LogError("Failed to get track", err)
		return sendInternalError(c)
	}

	if title := c.Query("title"); title != "" {
		track.Title = title
	}
	if artistName := c.Query("artist_name"); artistName != "" {
		track.ArtistName = artistName
	}

	if err := h.repos.Tracks.Update(c.Context(), track); err != nil {
		if repositories.IsUniqueViolation(err) {
			return sendBadRequest(c, "Track already exists")
		}
		logger.LogError("Failed to update track", err)
		return sendInternalError(c)
	}
	return c.JSON(track)
}

func (h *Handlers) DeleteTrack(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendUnprocessable(c, "invalid track id")
	}

	if _, err := h.repos.Tracks.GetByID(c.Context(), id); err != nil {
		if isNoRows(err) {
			return sendNotFound(c, "Track not found")
		}
		logger.LogError("Failed to look up track", err)
		return sendInternalError(c)
	}

	if err := h.repos.Tracks.Delete(c.Context(), id); err != nil {
		logger.LogError("Failed to delete track", err)
		return sendInternalError(c)
	}
	return c.JSON(fiber.Map{"message": "Track deleted"})
}
