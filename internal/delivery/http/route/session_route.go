package route

import (
	"github.com/fluenta/tutor-be/internal/delivery/http/handler"
	"github.com/fluenta/tutor-be/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoute(api *fiber.App, handler handler.SessionHandler, m *middleware.Middleware) {
	router := api.Group("/sessions")
	{
		router.Post("/", handler.Create)
		router.Post("/:session_id/turns", handler.ProcessTurn)
		router.Post("/:session_id/end", handler.End)
		router.Post("/:session_id/quiz", handler.SubmitQuiz)
		router.Get("/:session_id", handler.Get)
		router.Get("/:session_id/transcript", handler.GetTranscript)
		router.Get("/:session_id/report", handler.GetMistakeReport)
	}
}

func SetupContentRoute(api *fiber.App, handler handler.ContentHandler, m *middleware.Middleware) {
	router := api.Group("/content")
	{
		router.Get("/levels", handler.GetLevels)
		router.Get("/levels/:level_id/scenarios", handler.GetScenarios)
	}
}

func SetupSpeechRoute(api *fiber.App, handler handler.SpeechHandler, m *middleware.Middleware) {
	router := api.Group("/speech")
	{
		router.Post("/transcribe", handler.Transcribe)
	}
}
