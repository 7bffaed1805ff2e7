package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ellavondegurechaff/fankee/fankee"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
)

// Repositories bundles everything the handlers need.
type Repositories struct {
	Users       repositories.UserRepository
	Tracks      repositories.TrackRepository
	Missions    repositories.MissionRepository
	Completions repositories.CompletionRepository
}

// New builds the API app with all routes registered. The wire contract is the
// original Fankee API: query-parameter inputs, bare JSON entities out, and
// {"detail": "..."} error bodies.
func New(cfg fankee.ServerConfig, repos Repositories) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Fankee API",
		ServerHeader: "Fankee",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(LoggingMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	h := &Handlers{repos: repos}

	users := app.Group("/users")
	users.Post("/", h.CreateUser)
	users.Get("/", h.GetUsers)
	users.Get("/by-nickname/:nickname", h.GetUserByNickname)
	users.Get("/:id", h.GetUser)
	users.Delete("/:id", h.DeleteUser)

	tracks := app.Group("/tracks")
	tracks.Post("/", h.CreateTrack)
	tracks.Get("/", h.GetTracks)
	tracks.Get("/:id", h.GetTrack)
	tracks.Put("/:id", h.UpdateTrack)
	tracks.Delete("/:id", h.DeleteTrack)

	missions := app.Group("/missions")
	missions.Post("/", h.CreateMission)
	missions.Get("/", h.GetMissions)
	missions.Get("/by-track/:trackId", h.GetMissionsByTrack)
	missions.Get("/:id", h.GetMission)
	missions.Put("/:id", h.UpdateMission)
	missions.Delete("/:id", h.DeleteMission)

	completed := app.Group("/completed-missions")
	completed.Post("/", h.CreateCompletedMission)
	completed.Get("/", h.GetCompletedMissions)
	completed.Get("/by-user/:userId", h.GetCompletedMissionsByUser)
	completed.Get("/:id", h.GetCompletedMission)
	completed.Delete("/:id", h.DeleteCompletedMission)

	app.Get("/user-points/:userId", h.GetUserPoints)
	app.Get("/leaderboard/", h.GetLeaderboard)

	return app
}

func corsOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	out := ""
	for i, o := range origins {
		if i > 0 {
			out += ","
		}
		out += o
	}
	return out
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{"detail": message})
}
