// Package server exposes the classification engine over HTTP:
// POST /predict, POST /predict/batch, and GET /health.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/crimson-sun/smsguard/internal/config"
	"github.com/crimson-sun/smsguard/internal/engine"
)

// Server wires the classification engine to its HTTP surface.
type Server struct {
	app      *fiber.App
	engine   *engine.Engine
	maxBatch int
}

// New builds the fiber app with its middleware stack and routes.
func New(eng *engine.Engine, cfg config.ServerConfig) *Server {
	s := &Server{engine: eng, maxBatch: cfg.MaxBatch}

	app := fiber.New(fiber.Config{
		AppName:               "smsguard",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger())

	app.Get("/health", s.Health)
	app.Post("/predict", s.Predict)
	app.Post("/predict/batch", s.PredictBatch)

	s.app = app
	return s
}

// Listen serves until Shutdown is called or the listener fails.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every handler error as a JSON body with the status
// code carried by *fiber.Error (500 otherwise).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"request_id", c.Locals("requestid"),
		)
		return err
	}
}
