package handler

import (
	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/domain"
	"github.com/fluenta/tutor-be/internal/pkg/response"
	"github.com/gofiber/fiber/v2"
)

type (
	ContentHandler interface {
		GetLevels(ctx *fiber.Ctx) error
		GetScenarios(ctx *fiber.Ctx) error
	}

	contentHandler struct {
		library *content.Library
	}
)

func NewContentHandler(library *content.Library) ContentHandler {
	return &contentHandler{library: library}
}

// GET /content/levels
func (h *contentHandler) GetLevels(ctx *fiber.Ctx) error {
	return response.NewSuccess(domain.CONTENT_GET_SUCCESS, h.library.Levels(), nil).Send(ctx)
}

// GET /content/levels/:level_id/scenarios
func (h *contentHandler) GetScenarios(ctx *fiber.Ctx) error {
	levelID := ctx.Params("level_id")
	if _, ok := h.library.Level(levelID); !ok {
		return response.NewFailed(domain.CONTENT_GET_FAILED, fiber.NewError(fiber.StatusNotFound, "level not found"), nil).Send(ctx)
	}

	return response.NewSuccess(domain.CONTENT_GET_SUCCESS, h.library.ScenariosByLevel(levelID), nil).Send(ctx)
}
