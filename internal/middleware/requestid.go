// Package middleware contains HTTP middleware for the Season API.
// Middleware sits between the HTTP server and the route handlers and runs on every
// request that passes through it: request ids, request logging.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = fiber.HeaderXRequestID

// requestIDKey is the c.Locals key the id is stored under.
const requestIDKey = "requestid"

// RequestID assigns every request a UUID, unless the client already sent one in the
// X-Request-ID header, and echoes it back on the response.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     RequestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// GetRequestID returns the id assigned by RequestID, or "" when the middleware did not run.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
