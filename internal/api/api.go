// Package api serves the admin dashboard: per-user profiles, history,
// schedules, and reward management over JSON.
package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/trustieee/timey-sub000/internal/session"
)

type Server struct {
	registry *session.Registry
}

// New builds the fiber app. allowedOrigins is a comma-separated CORS list.
func New(reg *session.Registry, allowedOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "timey",
		ErrorHandler: errorHandler,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	s := &Server{registry: reg}
	s.routes(app)
	return app
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/users", s.listUsers)

	user := api.Group("/users/:userId")
	user.Get("/profile", s.getProfile)
	user.Post("/profile", s.createProfile)
	user.Get("/stats", s.getStats)
	user.Get("/history", s.getHistory)
	user.Get("/days/:date", s.getDay)
	user.Put("/chores", s.putChores)
	user.Post("/chores/:choreId/status", s.postChoreStatus)
	user.Post("/days/today/reset", s.resetToday)
	user.Post("/rewards/use", s.useReward)
	user.Post("/rewards/grant", s.grantRewards)
	user.Post("/finalize", s.finalize)
	user.Get("/play", s.getPlay)
}

// fail writes the JSON error shape used by every handler.
func fail(c *fiber.Ctx, code int, msg string, cause error) error {
	body := fiber.Map{"error": msg}
	if cause != nil {
		body["cause"] = cause.Error()
	}
	return c.Status(code).JSON(body)
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message, nil)
	}

	var gate session.GateError
	switch {
	case errors.As(err, &gate):
		return fail(c, fiber.StatusConflict, "play is locked", err)
	case errors.Is(err, session.ErrUnknownChore):
		return fail(c, fiber.StatusNotFound, "chore not found", err)
	case errors.Is(err, session.ErrNoProfile):
		return fail(c, fiber.StatusNotFound, "user not found", err)
	case errors.Is(err, session.ErrProfileUnavailable):
		return fail(c, fiber.StatusServiceUnavailable, "profile store is unavailable", err)
	case errors.Is(err, session.ErrNoRewardTokens),
		errors.Is(err, session.ErrDayFinalized),
		errors.Is(err, session.ErrNoOpenSession):
		return fail(c, fiber.StatusConflict, "request conflicts with the profile state", err)
	}
	log.Printf("[API] %s %s: %v", c.Method(), c.Path(), err)
	return fail(c, fiber.StatusInternalServerError, "internal error", err)
}
