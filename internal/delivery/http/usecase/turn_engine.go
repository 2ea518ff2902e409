package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"github.com/fluenta/tutor-be/internal/delivery/http/repository"
	"github.com/fluenta/tutor-be/internal/pkg/llm"
	"github.com/fluenta/tutor-be/internal/pkg/speech"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidPhase          = errors.New("session phase does not accept this request")
	ErrScenarioNotFound      = errors.New("scenario not found")
	ErrScenarioLevelMismatch = errors.New("scenario does not belong to the given level")
	ErrQuizNotAvailable      = errors.New("quiz is not available for this session")
)

type TutorSessionUsecase interface {
	CreateSession(ctx context.Context, req entity.CreateSessionRequest) (*entity.Session, error)
	ProcessTurn(ctx context.Context, sessionID string, text string) (*TurnResult, error)
	EndSession(ctx context.Context, sessionID string) (*entity.Session, *entity.SessionSummary, error)
	SubmitQuiz(ctx context.Context, sessionID string, req entity.SubmitQuizRequest) (*entity.SubmitQuizResponse, *entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	MistakeReport(ctx context.Context, sessionID string) (*entity.MistakeReport, error)
}

// TurnResult is what one processed turn hands back to the delivery layer.
type TurnResult struct {
	Session    *entity.Session
	Reply      string
	Timing     entity.TurnTiming
	ReplyAudio []byte
}

type TurnEngineConfig struct {
	Repository repository.SessionRepository
	LLM        llm.DecisionClient
	TTS        speech.Synthesizer // optional; nil disables reply audio
	Content    *content.Library
	Log        *logrus.Logger

	HistoryWindow  int // transcript messages offered to the model, oldest dropped
	RetryThreshold int // failed attempts before the model is brought back in

	Now   func() time.Time // test hooks
	NewID func() string
}

type turnEngine struct {
	cfg TurnEngineConfig
}

func NewTurnEngine(cfg TurnEngineConfig) TutorSessionUsecase {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 20
	}
	if cfg.RetryThreshold <= 0 {
		cfg.RetryThreshold = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	return &turnEngine{cfg: cfg}
}

func (e *turnEngine) CreateSession(ctx context.Context, req entity.CreateSessionRequest) (*entity.Session, error) {
	scenario, ok := e.cfg.Content.Scenario(req.ScenarioID)
	if !ok {
		return nil, ErrScenarioNotFound
	}
	if scenario.LevelID != req.LevelID {
		return nil, ErrScenarioLevelMismatch
	}

	now := e.cfg.Now()
	session := &entity.Session{
		ID:         e.cfg.NewID(),
		CreatedAt:  now,
		UpdatedAt:  now,
		LevelID:    req.LevelID,
		ScenarioID: req.ScenarioID,
		Phase:      entity.PhaseRoleplay,
		PostQuizID: scenario.PostQuizID,
		Mistakes:   []entity.Mistake{},
	}
	e.appendMessage(session, entity.RoleTutor, scenario.InitialMessage, now)

	if err := e.cfg.Repository.Save(ctx, session); err != nil {
		return nil, err
	}

	e.cfg.Log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"scenario":   session.ScenarioID,
	}).Info("session created")

	return session, nil
}

func (e *turnEngine) ProcessTurn(ctx context.Context, sessionID string, text string) (*TurnResult, error) {
	session, err := e.cfg.Repository.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase != entity.PhaseRoleplay {
		return nil, ErrInvalidPhase
	}

	scenario, ok := e.cfg.Content.Scenario(session.ScenarioID)
	if !ok {
		return nil, ErrScenarioNotFound
	}
	persona, _ := e.cfg.Content.Persona(scenario.PersonaID)

	log := e.cfg.Log.WithFields(logrus.Fields{"session_id": session.ID})

	// The learner message is always recorded, even on later failure paths.
	e.appendMessage(session, entity.RoleLearner, text, e.cfg.Now())

	// Retry gate. A matching attempt clears the gate and falls through to
	// full generation; a failed attempt under the threshold is answered
	// locally without any model call.
	if pr := session.PendingRetry; pr != nil {
		if NormalizeText(text) == NormalizeText(pr.Expected) {
			session.PendingRetry = nil
		} else {
			pr.Attempts++
			if pr.Attempts < e.cfg.RetryThreshold {
				nudge := retryMessage(persona, pr.Expected, pr.Attempts)
				e.appendMessage(session, entity.RoleTutor, nudge, e.cfg.Now())
				session.UpdatedAt = e.cfg.Now()
				if err := e.cfg.Repository.Save(ctx, session); err != nil {
					return nil, err
				}
				log.WithField("attempts", pr.Attempts).Info("retry gated locally")
				return &TurnResult{Session: session, Reply: nudge}, nil
			}
			// Threshold reached: keep the escalated pendingRetry and let the
			// model intervene; its decision below replaces or clears it.
			log.WithField("attempts", pr.Attempts).Info("retry escalated to model")
		}
	}

	llmStart := time.Now()
	decision, err := e.cfg.LLM.GenerateDecision(ctx, llm.DecisionRequest{
		Scenario:     scenario,
		Persona:      persona,
		History:      session.RecentTranscript(e.cfg.HistoryWindow),
		PendingRetry: session.PendingRetry,
	})
	llmMs := time.Since(llmStart).Milliseconds()

	if err != nil {
		log.WithError(err).Warn("decision generation failed, using fallback")
		decision = FallbackDecision()
	} else if vErr := ValidateDecision(decision); vErr != nil {
		log.WithError(vErr).Warn("decision invalid, using fallback")
		decision = FallbackDecision()
	}
	session.LastDecision = decision

	reply := decision.Reply
	var toolMs int64

	// At most one tool per turn. Narration is a plain-text follow-up and can
	// never request another tool, so there is no loop to guard against.
	if decision.Tool != nil {
		toolStart := time.Now()
		result := ExecuteTool(e.cfg.Content, session, decision.Tool, e.cfg.Now(), e.cfg.NewID)
		if result.Success {
			ApplyTool(session, result, e.cfg.Now())
			reply = result.Message
			if needsNarration(result.Tool) {
				narration, nErr := e.cfg.LLM.GenerateNarration(ctx, llm.NarrationRequest{
					Scenario: scenario,
					Persona:  persona,
					Tool:     result.Tool,
					Message:  result.Message,
				})
				if nErr != nil || narration == "" {
					log.WithError(nErr).Warn("narration failed, using tool message")
				} else {
					reply = narration
				}
			}
		} else {
			log.WithFields(logrus.Fields{"tool": result.Tool, "message": result.Message}).Warn("tool failed")
			reply = decision.Reply
		}
		toolMs = time.Since(toolStart).Milliseconds()
	}

	// The retry gate for the next turn derives purely from the decision shown
	// this turn.
	if decision.IsMistake && decision.ShouldRetry {
		session.PendingRetry = &entity.PendingRetry{Expected: decision.Correction, Attempts: 0}
	} else {
		session.PendingRetry = nil
	}

	e.appendMessage(session, entity.RoleTutor, reply, e.cfg.Now())
	session.TurnCount++
	session.UpdatedAt = e.cfg.Now()

	if err := e.cfg.Repository.Save(ctx, session); err != nil {
		return nil, err
	}

	result := &TurnResult{
		Session: session,
		Reply:   reply,
		Timing:  entity.TurnTiming{LLMMs: llmMs, ToolMs: toolMs},
	}

	// Reply audio is best-effort; synthesis failure never fails the turn.
	if e.cfg.TTS != nil {
		audio, sErr := e.cfg.TTS.Synthesize(ctx, reply)
		if sErr != nil {
			log.WithError(sErr).Warn("tts failed, omitting audio")
		} else {
			result.ReplyAudio = audio
		}
	}

	return result, nil
}

func (e *turnEngine) EndSession(ctx context.Context, sessionID string) (*entity.Session, *entity.SessionSummary, error) {
	session, err := e.cfg.Repository.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	session.Phase = entity.PhaseCompleted
	session.UpdatedAt = e.cfg.Now()
	if err := e.cfg.Repository.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	summary := &entity.SessionSummary{Turns: session.TurnCount}
	switch {
	case session.ActiveQuiz != nil:
		summary.HasQuiz = true
		summary.QuizID = session.ActiveQuiz.QuizID
	case session.QuizResult != nil:
		summary.HasQuiz = true
		summary.QuizID = session.QuizResult.QuizID
	}

	return session, summary, nil
}

func (e *turnEngine) SubmitQuiz(ctx context.Context, sessionID string, req entity.SubmitQuizRequest) (*entity.SubmitQuizResponse, *entity.Session, error) {
	session, err := e.cfg.Repository.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Phase == entity.PhaseCompleted {
		return nil, nil, ErrInvalidPhase
	}

	allowed := session.PostQuizID == req.QuizID ||
		(session.ActiveQuiz != nil && session.ActiveQuiz.QuizID == req.QuizID)
	if req.QuizID == "" || !allowed {
		return nil, nil, ErrQuizNotAvailable
	}

	// Same executor and applier as the conversational path: one scoring
	// algorithm, whichever way answers arrive.
	args, err := json.Marshal(entity.GradeQuizArgs{QuizID: req.QuizID, Answers: req.Answers})
	if err != nil {
		return nil, nil, err
	}
	call := &entity.ToolCall{Name: entity.ToolGradeQuiz, Args: args}
	result := ExecuteTool(e.cfg.Content, session, call, e.cfg.Now(), e.cfg.NewID)
	ApplyTool(session, result, e.cfg.Now())

	if err := e.cfg.Repository.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	return &entity.SubmitQuizResponse{
		Success: result.Success,
		Message: result.Message,
		Result:  result.QuizResult,
	}, session, nil
}

func (e *turnEngine) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return e.cfg.Repository.Load(ctx, sessionID)
}

func (e *turnEngine) MistakeReport(ctx context.Context, sessionID string) (*entity.MistakeReport, error) {
	session, err := e.cfg.Repository.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, m := range session.Mistakes {
		typ := m.Type
		if typ == "" {
			typ = "other"
		}
		if _, seen := counts[typ]; !seen {
			order = append(order, typ)
		}
		counts[typ]++
	}

	patterns := make([]entity.MistakePattern, 0, len(order))
	for _, typ := range order {
		patterns = append(patterns, entity.MistakePattern{Type: typ, Count: counts[typ]})
	}

	return &entity.MistakeReport{
		SessionID: session.ID,
		Total:     len(session.Mistakes),
		Patterns:  patterns,
		Mistakes:  session.Mistakes,
	}, nil
}

func (e *turnEngine) appendMessage(session *entity.Session, role entity.Role, text string, at time.Time) {
	session.Transcript = append(session.Transcript, entity.TranscriptMessage{
		ID:        e.cfg.NewID(),
		Role:      role,
		Text:      text,
		Timestamp: at,
	})
}
