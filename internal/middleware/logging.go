package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dmv-footballheadz/season-api/internal/logging"
)

// RequestLogger logs one line per request once the handler chain has finished.
// 5xx responses log at error level, 4xx at warn, everything else at info.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	log := logging.Component(logger, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		// The app's ErrorHandler has not run yet, so derive the final status from the error.
		status := c.Response().StatusCode()
		if chainErr != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(chainErr, &fe) {
				status = fe.Code
			}
		}

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error().Err(chainErr)
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", GetRequestID(c)).
			Msg("request")

		return chainErr
	}
}
