package handler

import (
	"github.com/fluenta/tutor-be/internal/delivery/http/domain"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"github.com/fluenta/tutor-be/internal/pkg/response"
	"github.com/fluenta/tutor-be/internal/pkg/speech"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	SpeechHandler interface {
		Transcribe(ctx *fiber.Ctx) error
	}

	speechHandler struct {
		logger      *logrus.Logger
		transcriber speech.Transcriber
	}
)

func NewSpeechHandler(logger *logrus.Logger, transcriber speech.Transcriber) SpeechHandler {
	return &speechHandler{
		logger:      logger,
		transcriber: transcriber,
	}
}

// POST /speech/transcribe (multipart, field "audio")
func (h *speechHandler) Transcribe(ctx *fiber.Ctx) error {
	if h.transcriber == nil {
		return response.NewFailed(domain.SPEECH_TRANSCRIBE_FAILED, fiber.NewError(fiber.StatusServiceUnavailable, "speech is not configured"), h.logger).Send(ctx)
	}

	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return response.NewFailed(domain.SPEECH_TRANSCRIBE_FAILED, fiber.NewError(fiber.StatusBadRequest, "audio file is required"), h.logger).Send(ctx)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.NewFailed(domain.SPEECH_TRANSCRIBE_FAILED, fiber.NewError(fiber.StatusBadRequest, "audio file cannot be read"), h.logger).Send(ctx)
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(ctx.UserContext(), fileHeader.Filename, file)
	if err != nil {
		return response.NewFailed(domain.SPEECH_TRANSCRIBE_FAILED, fiber.NewError(fiber.StatusBadGateway, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SPEECH_TRANSCRIBE_SUCCESS, entity.TranscribeResponse{Text: text}, nil).Send(ctx)
}
