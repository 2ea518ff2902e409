package config

import (
	"context"
	"fmt"
	"os"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/handler"
	"github.com/fluenta/tutor-be/internal/delivery/http/middleware"
	"github.com/fluenta/tutor-be/internal/delivery/http/repository"
	"github.com/fluenta/tutor-be/internal/delivery/http/route"
	"github.com/fluenta/tutor-be/internal/delivery/http/usecase"
	"github.com/fluenta/tutor-be/internal/pkg/llm"
	"github.com/fluenta/tutor-be/internal/pkg/speech"
	"github.com/fluenta/tutor-be/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	Api       *fiber.App
	Config    *viper.Viper
	DB        *gorm.DB
	Log       *logrus.Logger
	Validator *validate.Validator
	Content   *content.Library
}

func Bootstrap(config *BootstrapConfig) {

	mid := middleware.NewMiddleware(&middleware.MiddlewareConfig{
		Log:    config.Log,
		Config: config.Config,
	})

	sessionRepo := newSessionRepository(config)
	decisionClient := newDecisionClient(config)
	synthesizer, transcriber := newSpeech(config)

	engine := usecase.NewTurnEngine(usecase.TurnEngineConfig{
		Repository:     sessionRepo,
		LLM:            decisionClient,
		TTS:            synthesizer,
		Content:        config.Content,
		Log:            config.Log,
		HistoryWindow:  config.Config.GetInt("engine.history_window"),
		RetryThreshold: config.Config.GetInt("engine.retry_threshold"),
	})

	sessionHandler := handler.NewSessionHandler(config.Validator, config.Log, engine)
	contentHandler := handler.NewContentHandler(config.Content)
	speechHandler := handler.NewSpeechHandler(config.Log, transcriber)

	route.Setup(&route.RouteConfig{
		Api:            config.Api,
		Middleware:     mid,
		SessionHandler: sessionHandler,
		ContentHandler: contentHandler,
		SpeechHandler:  speechHandler,
	})

}

// newSessionRepository picks the store backend. Only the gorm store serializes
// writers per session, so the memory store is refused in production.
func newSessionRepository(config *BootstrapConfig) repository.SessionRepository {
	driver := config.Config.GetString("storage.driver")
	if driver == "" {
		driver = "postgres"
	}

	switch driver {
	case "memory":
		if os.Getenv("ENV") == "production" {
			panic(fmt.Errorf("storage.driver=memory is not allowed in production"))
		}
		config.Log.Warn("using in-memory session store (dev/test only)")
		return repository.NewMemorySessionRepository()
	case "postgres":
		return repository.NewGormSessionRepository(config.DB)
	default:
		panic(fmt.Errorf("unknown storage driver %q", driver))
	}
}

func newDecisionClient(config *BootstrapConfig) llm.DecisionClient {
	provider := config.Config.GetString("llm.provider")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "gemini":
		client, err := llm.NewGeminiClient(
			context.Background(),
			config.Config.GetString("llm.gemini.api_key"),
			config.Config.GetString("llm.gemini.model"),
		)
		if err != nil {
			panic(fmt.Errorf("failed to init gemini client: %w", err))
		}
		return client
	case "openai":
		return llm.NewOpenAIClient(
			config.Config.GetString("llm.openai.api_key"),
			config.Config.GetString("llm.openai.model"),
			config.Config.GetString("llm.openai.base_url"),
		)
	default:
		panic(fmt.Errorf("unknown llm provider %q", provider))
	}
}

func newSpeech(config *BootstrapConfig) (speech.Synthesizer, speech.Transcriber) {
	if !config.Config.GetBool("speech.enabled") {
		return nil, nil
	}

	client := speech.NewOpenAISpeech(
		config.Config.GetString("speech.api_key"),
		config.Config.GetString("speech.base_url"),
		config.Config.GetString("speech.tts_model"),
		config.Config.GetString("speech.stt_model"),
		config.Config.GetString("speech.voice"),
	)

	var synthesizer speech.Synthesizer
	if config.Config.GetBool("speech.tts.enabled") {
		synthesizer = client
	}
	return synthesizer, client
}
