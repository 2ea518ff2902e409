package route

import (
	"github.com/fluenta/tutor-be/internal/delivery/http/handler"
	"github.com/fluenta/tutor-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type RouteConfig struct {
	Api            *fiber.App
	Middleware     *middleware.Middleware
	SessionHandler handler.SessionHandler
	ContentHandler handler.ContentHandler
	SpeechHandler  handler.SpeechHandler
}

func Setup(c *RouteConfig) {
	c.Api.Use(recover.New())
	c.Api.Use(c.Middleware.RequestLogger())
	c.Api.Use(c.Middleware.CorsMiddleware())

	SetupSessionRoute(c.Api, c.SessionHandler, c.Middleware)
	SetupContentRoute(c.Api, c.ContentHandler, c.Middleware)
	SetupSpeechRoute(c.Api, c.SpeechHandler, c.Middleware)
}
