package handler

import (
	"encoding/base64"
	"errors"

	"github.com/fluenta/tutor-be/internal/delivery/http/domain"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"github.com/fluenta/tutor-be/internal/delivery/http/repository"
	"github.com/fluenta/tutor-be/internal/delivery/http/usecase"
	"github.com/fluenta/tutor-be/internal/pkg/response"
	"github.com/fluenta/tutor-be/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	SessionHandler interface {
		Create(ctx *fiber.Ctx) error
		ProcessTurn(ctx *fiber.Ctx) error
		End(ctx *fiber.Ctx) error
		SubmitQuiz(ctx *fiber.Ctx) error
		Get(ctx *fiber.Ctx) error
		GetTranscript(ctx *fiber.Ctx) error
		GetMistakeReport(ctx *fiber.Ctx) error
	}

	sessionHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.TutorSessionUsecase
	}
)

func NewSessionHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.TutorSessionUsecase) SessionHandler {
	return &sessionHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// statusFor maps engine sentinels to HTTP codes; anything unexpected is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, usecase.ErrScenarioNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidPhase):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrScenarioLevelMismatch),
		errors.Is(err, usecase.ErrQuizNotAvailable):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// POST /sessions
func (h *sessionHandler) Create(ctx *fiber.Ctx) error {
	var req entity.CreateSessionRequest

	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.SESSION_CREATE_FAILED, err, h.logger).Send(ctx)
	}

	session, err := h.usecase.CreateSession(ctx.UserContext(), req)
	if err != nil {
		return response.NewFailed(domain.SESSION_CREATE_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_CREATE_SUCCESS, session, nil).Send(ctx)
}

// POST /sessions/:session_id/turns
func (h *sessionHandler) ProcessTurn(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_TURN_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var req entity.TurnRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.SESSION_TURN_FAILED, err, h.logger).Send(ctx)
	}

	result, err := h.usecase.ProcessTurn(ctx.UserContext(), sessionID, req.Text)
	if err != nil {
		return response.NewFailed(domain.SESSION_TURN_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	resp := entity.TurnResponse{
		SessionID: result.Session.ID,
		Phase:     result.Session.Phase,
		Reply:     result.Reply,
		TurnCount: result.Session.TurnCount,
		Timing:    result.Timing,
	}
	if len(result.ReplyAudio) > 0 {
		resp.ReplyAudio = base64.StdEncoding.EncodeToString(result.ReplyAudio)
	}

	return response.NewSuccess(domain.SESSION_TURN_SUCCESS, resp, nil).Send(ctx)
}

// POST /sessions/:session_id/end
func (h *sessionHandler) End(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_END_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	session, summary, err := h.usecase.EndSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.SESSION_END_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	resp := entity.EndSessionResponse{
		SessionID: session.ID,
		Phase:     session.Phase,
		Summary:   *summary,
	}

	return response.NewSuccess(domain.SESSION_END_SUCCESS, resp, nil).Send(ctx)
}

// POST /sessions/:session_id/quiz
func (h *sessionHandler) SubmitQuiz(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_QUIZ_SUBMIT_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var req entity.SubmitQuizRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.SESSION_QUIZ_SUBMIT_FAILED, err, h.logger).Send(ctx)
	}

	result, _, err := h.usecase.SubmitQuiz(ctx.UserContext(), sessionID, req)
	if err != nil {
		return response.NewFailed(domain.SESSION_QUIZ_SUBMIT_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_QUIZ_SUBMIT_SUCCESS, result, nil).Send(ctx)
}

// GET /sessions/:session_id
func (h *sessionHandler) Get(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_GET_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	session, err := h.usecase.GetSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.SESSION_GET_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_GET_SUCCESS, session, nil).Send(ctx)
}

// GET /sessions/:session_id/transcript
func (h *sessionHandler) GetTranscript(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_GET_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	session, err := h.usecase.GetSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.SESSION_GET_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_GET_SUCCESS, session.Transcript, nil).Send(ctx)
}

// GET /sessions/:session_id/report
func (h *sessionHandler) GetMistakeReport(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.SESSION_REPORT_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	report, err := h.usecase.MistakeReport(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.SESSION_REPORT_FAILED, fiber.NewError(statusFor(err), err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SESSION_REPORT_SUCCESS, report, nil).Send(ctx)
}
