package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request. Session ids appear as a
// path param on most routes, so they are pulled into the fields when present.
func (m *Middleware) RequestLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		fields := logrus.Fields{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if sessionID := ctx.Params("session_id"); sessionID != "" {
			fields["session_id"] = sessionID
		}

		entry := m.Log.WithFields(fields)
		if err != nil || ctx.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Info("request")
		}

		return err
	}
}
