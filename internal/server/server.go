// Package server assembles the Fiber application: global middleware, the health probe and
// the season routes mounted under the configured prefix. It also owns the listen/shutdown loop.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/dmv-footballheadz/season-api/internal/config"
	"github.com/dmv-footballheadz/season-api/internal/handlers"
	"github.com/dmv-footballheadz/season-api/internal/logging"
	"github.com/dmv-footballheadz/season-api/internal/middleware"
	"github.com/dmv-footballheadz/season-api/internal/repository"
	"github.com/dmv-footballheadz/season-api/internal/service"
	"github.com/dmv-footballheadz/season-api/internal/validation"
)

// AppName is reported by Fiber and in the startup log.
const AppName = "Season API"

// Server is the HTTP front of the season service.
type Server struct {
	app *fiber.App
	cfg *config.Config
	log zerolog.Logger
}

// New wires the season service on top of repo and registers every route.
func New(cfg *config.Config, logger zerolog.Logger, repo repository.SeasonRepository) *Server {
	log := logging.Component(logger, "server")

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		UnescapePath:          true, // ids contain "|", which clients send percent-encoded
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	// --- Global middleware ---
	// Order matters: middleware registered first wraps everything after it. The request id and
	// the request logger sit outside recover, so a panicking handler still gets a log line
	// (recover turns the panic into an error, which the logger reports as a 500).
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New())

	// --- Public routes ---
	app.Get("/health", handlers.HealthCheck)

	// --- Season routes ---
	v := validation.New(cfg.LeagueSize)
	var opts []service.Option
	if cfg.StrictWrites {
		opts = append(opts, service.WithWriteCheck(v.ValidateSeason))
	}
	svc := service.NewSeasonService(repo, logger, opts...)

	api := app.Group(cfg.APIPrefix)
	api.Get("/season", handlers.ListSeasons(svc, v))
	api.Get("/season/:id", handlers.GetSeason(svc))
	api.Post("/season", handlers.CreateSeason(svc))
	api.Put("/season/:id", handlers.ReplaceSeason(svc))
	api.Patch("/season/:id", handlers.PatchSeason(svc))
	api.Delete("/season/:id", handlers.DeleteSeason(svc))

	return &Server{app: app, cfg: cfg, log: log}
}

// App exposes the underlying Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured port until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(":" + s.cfg.Port)
	}()
	s.log.Info().
		Str("port", s.cfg.Port).
		Str("prefix", s.cfg.APIPrefix).
		Str("store", s.cfg.StoreBackend).
		Msg("starting server")

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on :%s: %w", s.cfg.Port, err)
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("shutting down")
	if err := s.app.ShutdownWithTimeout(s.cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// errorHandler answers every error a handler returns with {"error": "..."}.
// *fiber.Error keeps its code and message; anything else is logged and reported as a 500.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", middleware.GetRequestID(c)).
			Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
