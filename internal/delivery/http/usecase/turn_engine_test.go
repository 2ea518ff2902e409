package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"github.com/fluenta/tutor-be/internal/delivery/http/repository"
	"github.com/fluenta/tutor-be/internal/pkg/llm"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM replays scripted decisions and counts calls, so tests can assert
// exactly when the model is (not) consulted.
type fakeLLM struct {
	decisions      []*entity.TeacherDecision
	decisionErr    error
	decisionCalls  int
	lastRequest    llm.DecisionRequest
	narration      string
	narrationErr   error
	narrationCalls int
}

func (f *fakeLLM) GenerateDecision(_ context.Context, req llm.DecisionRequest) (*entity.TeacherDecision, error) {
	f.decisionCalls++
	f.lastRequest = req
	if f.decisionErr != nil {
		return nil, f.decisionErr
	}
	if len(f.decisions) == 0 {
		return &entity.TeacherDecision{Reply: "¡Muy bien!"}, nil
	}
	d := f.decisions[0]
	f.decisions = f.decisions[1:]
	return d, nil
}

func (f *fakeLLM) GenerateNarration(_ context.Context, _ llm.NarrationRequest) (string, error) {
	f.narrationCalls++
	if f.narrationErr != nil {
		return "", f.narrationErr
	}
	return f.narration, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEngine(fake *fakeLLM) (TutorSessionUsecase, repository.SessionRepository) {
	repo := repository.NewMemorySessionRepository()
	engine := NewTurnEngine(TurnEngineConfig{
		Repository: repo,
		LLM:        fake,
		Content:    testLibrary(),
		Log:        quietLogger(),
	})
	return engine, repo
}

func mustCreateSession(t *testing.T, engine TutorSessionUsecase) *entity.Session {
	t.Helper()
	session, err := engine.CreateSession(context.Background(), entity.CreateSessionRequest{
		LevelID:    "lvl-1",
		ScenarioID: "sc-1",
	})
	require.NoError(t, err)
	return session
}

func rawArgs(t *testing.T, args any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return raw
}

func TestCreateSession(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})

	session := mustCreateSession(t, engine)
	assert.Equal(t, entity.PhaseRoleplay, session.Phase)
	assert.Equal(t, 0, session.TurnCount)
	assert.Equal(t, "q1", session.PostQuizID)
	require.Len(t, session.Transcript, 1)
	assert.Equal(t, entity.RoleTutor, session.Transcript[0].Role)
	assert.Equal(t, "¡Hola!", session.Transcript[0].Text)
}

func TestCreateSessionUnknownScenario(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})

	_, err := engine.CreateSession(context.Background(), entity.CreateSessionRequest{
		LevelID:    "lvl-1",
		ScenarioID: "sc-unknown",
	})
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestCreateSessionLevelMismatch(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})

	_, err := engine.CreateSession(context.Background(), entity.CreateSessionRequest{
		LevelID:    "lvl-other",
		ScenarioID: "sc-1",
	})
	assert.ErrorIs(t, err, ErrScenarioLevelMismatch)
}

func TestProcessTurnUnknownSession(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})

	_, err := engine.ProcessTurn(context.Background(), "nope", "hola")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestProcessTurnHappyPath(t *testing.T) {
	fake := &fakeLLM{decisions: []*entity.TeacherDecision{
		{Feedback: "fine", Reply: "¡Perfecto! ¿Algo más?"},
	}}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "Quisiera dos manzanas")
	require.NoError(t, err)

	assert.Equal(t, "¡Perfecto! ¿Algo más?", result.Reply)
	assert.Equal(t, 1, result.Session.TurnCount)
	// greeting + learner + tutor
	require.Len(t, result.Session.Transcript, 3)
	assert.Equal(t, entity.RoleLearner, result.Session.Transcript[1].Role)
	assert.Equal(t, entity.RoleTutor, result.Session.Transcript[2].Role)
	assert.Nil(t, result.Session.PendingRetry)
	assert.Equal(t, 1, fake.decisionCalls)
	assert.Equal(t, 0, fake.narrationCalls)
}

func TestProcessTurnFallbackOnLLMFailure(t *testing.T) {
	fake := &fakeLLM{decisionErr: fmt.Errorf("model timeout")}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "yo es de ny")
	require.NoError(t, err)

	assert.Equal(t, FallbackReply, result.Reply)
	assert.Equal(t, 1, result.Session.TurnCount)
	assert.Nil(t, result.Session.PendingRetry)
	require.NotNil(t, result.Session.LastDecision)
	assert.False(t, result.Session.LastDecision.IsMistake)
	assert.False(t, result.Session.LastDecision.ShouldRetry)
}

func TestProcessTurnFallbackOnInvalidDecision(t *testing.T) {
	// should_retry without a correction violates the decision contract
	fake := &fakeLLM{decisions: []*entity.TeacherDecision{
		{Reply: "hmm", ShouldRetry: true},
	}}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "hola")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, result.Reply)
	assert.Nil(t, result.Session.PendingRetry)
}

func TestProcessTurnSetsPendingRetry(t *testing.T) {
	fake := &fakeLLM{decisions: []*entity.TeacherDecision{
		{
			Reply:       "Casi. Di: voy al mercado",
			IsMistake:   true,
			ShouldRetry: true,
			Correction:  "voy al mercado",
		},
	}}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "yo va al mercado")
	require.NoError(t, err)

	require.NotNil(t, result.Session.PendingRetry)
	assert.Equal(t, "voy al mercado", result.Session.PendingRetry.Expected)
	assert.Equal(t, 0, result.Session.PendingRetry.Attempts)
}

func TestRetryGateEscalation(t *testing.T) {
	fake := &fakeLLM{}
	engine, repo := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	session.PendingRetry = &entity.PendingRetry{Expected: "al mercado", Attempts: 0}
	require.NoError(t, repo.Save(context.Background(), session))

	// attempts 1 and 2 are answered locally, without the model
	for want := 1; want <= 2; want++ {
		result, err := engine.ProcessTurn(context.Background(), session.ID, "el supermercado")
		require.NoError(t, err)

		require.NotNil(t, result.Session.PendingRetry)
		assert.Equal(t, want, result.Session.PendingRetry.Attempts)
		assert.Equal(t, 0, fake.decisionCalls)
		assert.Equal(t, int64(0), result.Timing.LLMMs)
		assert.Equal(t, int64(0), result.Timing.ToolMs)
		assert.Contains(t, result.Reply, "al mercado")
		// gated turns do not count as completed turns
		assert.Equal(t, 0, result.Session.TurnCount)
	}

	// the 3rd failure escalates to exactly one model call
	result, err := engine.ProcessTurn(context.Background(), session.ID, "el supermercado")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.decisionCalls)
	assert.Equal(t, 1, result.Session.TurnCount)
	// the default scripted decision carries no retry, so the gate is cleared
	assert.Nil(t, result.Session.PendingRetry)

	// the escalated retry state was visible to the model
	require.NotNil(t, fake.lastRequest.PendingRetry)
	assert.Equal(t, 3, fake.lastRequest.PendingRetry.Attempts)
}

func TestRetryGateSuccessClearsAndGenerates(t *testing.T) {
	fake := &fakeLLM{decisions: []*entity.TeacherDecision{
		{Reply: "¡Eso es! Sigamos."},
	}}
	engine, repo := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	session.PendingRetry = &entity.PendingRetry{Expected: "Al mercado.", Attempts: 1}
	require.NoError(t, repo.Save(context.Background(), session))

	// case/space/punctuation differences normalize equal
	result, err := engine.ProcessTurn(context.Background(), session.ID, "  al   MERCADO")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.decisionCalls)
	assert.Equal(t, "¡Eso es! Sigamos.", result.Reply)
	assert.Nil(t, result.Session.PendingRetry)
	assert.Equal(t, 1, result.Session.TurnCount)
}

func TestProcessTurnWithStartQuizTool(t *testing.T) {
	fake := &fakeLLM{
		decisions: []*entity.TeacherDecision{
			{
				Reply: "time for a quiz",
				Tool:  &entity.ToolCall{Name: entity.ToolStartQuiz, Args: json.RawMessage(`{"quiz_id":"q1"}`)},
			},
		},
		narration: "¡Hora del examen! Vamos a ver qué has aprendido.",
	}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "estoy listo")
	require.NoError(t, err)

	assert.Equal(t, entity.PhaseQuiz, result.Session.Phase)
	require.NotNil(t, result.Session.ActiveQuiz)
	assert.Equal(t, "q1", result.Session.ActiveQuiz.QuizID)
	assert.Equal(t, fake.narration, result.Reply)
	// exactly one decision and one narration call: narration never re-enters
	// tool execution
	assert.Equal(t, 1, fake.decisionCalls)
	assert.Equal(t, 1, fake.narrationCalls)
}

func TestProcessTurnNarrationFailureUsesToolMessage(t *testing.T) {
	fake := &fakeLLM{
		decisions: []*entity.TeacherDecision{
			{
				Reply: "time for a quiz",
				Tool:  &entity.ToolCall{Name: entity.ToolStartQuiz, Args: json.RawMessage(`{"quiz_id":"q1"}`)},
			},
		},
		narrationErr: fmt.Errorf("narration timeout"),
	}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "estoy listo")
	require.NoError(t, err)

	assert.Equal(t, entity.PhaseQuiz, result.Session.Phase)
	assert.Contains(t, result.Reply, "q1")
}

func TestProcessTurnToolFailureUsesDecisionReply(t *testing.T) {
	fake := &fakeLLM{
		decisions: []*entity.TeacherDecision{
			{
				Reply: "let me check that quiz",
				Tool:  &entity.ToolCall{Name: entity.ToolStartQuiz, Args: json.RawMessage(`{"quiz_id":"missing"}`)},
			},
		},
	}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "estoy listo")
	require.NoError(t, err)

	assert.Equal(t, "let me check that quiz", result.Reply)
	assert.Equal(t, entity.PhaseRoleplay, result.Session.Phase)
	assert.Nil(t, result.Session.ActiveQuiz)
	assert.Equal(t, 0, fake.narrationCalls)
}

func TestProcessTurnLogMistakeTool(t *testing.T) {
	fake := &fakeLLM{
		decisions: []*entity.TeacherDecision{
			{
				Reply: "noted",
				Tool: &entity.ToolCall{
					Name: entity.ToolLogMistake,
					Args: rawArgs(t, entity.LogMistakeArgs{Original: "yo es", Corrected: "yo soy", Type: "conjugation"}),
				},
			},
		},
	}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "yo es de madrid")
	require.NoError(t, err)

	require.Len(t, result.Session.Mistakes, 1)
	assert.Equal(t, "conjugation", result.Session.Mistakes[0].Type)
	// log_mistake needs no narration follow-up
	assert.Equal(t, 0, fake.narrationCalls)
}

func TestProcessTurnRejectedOutsideRoleplay(t *testing.T) {
	fake := &fakeLLM{
		decisions: []*entity.TeacherDecision{
			{
				Reply: "we are done",
				Tool:  &entity.ToolCall{Name: entity.ToolMarkComplete, Args: rawArgs(t, entity.MarkCompleteArgs{Summary: "done"})},
			},
		},
		narration: "¡Buen trabajo hoy!",
	}
	engine, _ := newTestEngine(fake)
	session := mustCreateSession(t, engine)

	result, err := engine.ProcessTurn(context.Background(), session.ID, "adiós")
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseCompleted, result.Session.Phase)
	require.NotNil(t, result.Session.Completion)

	_, err = engine.ProcessTurn(context.Background(), session.ID, "¿hola?")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestEndSessionForcesCompletion(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	ended, summary, err := engine.EndSession(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.PhaseCompleted, ended.Phase)
	assert.Equal(t, 0, summary.Turns)
	assert.False(t, summary.HasQuiz)

	// ending is idempotent
	ended, _, err = engine.EndSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseCompleted, ended.Phase)
}

func TestSubmitQuiz(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	resp, updated, err := engine.SubmitQuiz(context.Background(), session.ID, entity.SubmitQuizRequest{
		QuizID:  "q1",
		Answers: []int{0, 1, -1},
	})
	require.NoError(t, err)

	require.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 67, resp.Result.Score)
	assert.Equal(t, 3, resp.Result.Total)
	require.NotNil(t, updated.QuizResult)
	assert.Equal(t, 67, updated.QuizResult.Score)
}

func TestSubmitQuizWrongQuizID(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	_, _, err := engine.SubmitQuiz(context.Background(), session.ID, entity.SubmitQuizRequest{
		QuizID:  "qz-other",
		Answers: []int{0, 1, 2},
	})
	assert.ErrorIs(t, err, ErrQuizNotAvailable)
}

func TestSubmitQuizMalformedAnswers(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	resp, updated, err := engine.SubmitQuiz(context.Background(), session.ID, entity.SubmitQuizRequest{
		QuizID:  "q1",
		Answers: []int{0},
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Result)
	assert.Nil(t, updated.QuizResult)
}

func TestSubmitQuizOnCompletedSession(t *testing.T) {
	engine, _ := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	_, _, err := engine.EndSession(context.Background(), session.ID)
	require.NoError(t, err)

	_, _, err = engine.SubmitQuiz(context.Background(), session.ID, entity.SubmitQuizRequest{
		QuizID:  "q1",
		Answers: []int{0, 1, 2},
	})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestMistakeReport(t *testing.T) {
	engine, repo := newTestEngine(&fakeLLM{})
	session := mustCreateSession(t, engine)

	session.Mistakes = []entity.Mistake{
		{ID: "m1", Type: "conjugation", Original: "yo es"},
		{ID: "m2", Type: "conjugation", Original: "tú es"},
		{ID: "m3", Type: "gender", Original: "la problema"},
		{ID: "m4", Original: "??"},
	}
	require.NoError(t, repo.Save(context.Background(), session))

	report, err := engine.MistakeReport(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	require.Len(t, report.Patterns, 3)
	assert.Equal(t, entity.MistakePattern{Type: "conjugation", Count: 2}, report.Patterns[0])
	assert.Equal(t, entity.MistakePattern{Type: "gender", Count: 1}, report.Patterns[1])
	assert.Equal(t, entity.MistakePattern{Type: "other", Count: 1}, report.Patterns[2])
}

func TestTranscriptWindowBound(t *testing.T) {
	fake := &fakeLLM{}
	repo := repository.NewMemorySessionRepository()
	engine := NewTurnEngine(TurnEngineConfig{
		Repository:    repo,
		LLM:           fake,
		Content:       testLibrary(),
		Log:           quietLogger(),
		HistoryWindow: 4,
	})
	session := mustCreateSession(t, engine)

	for i := 0; i < 5; i++ {
		_, err := engine.ProcessTurn(context.Background(), session.ID, fmt.Sprintf("turno %d", i))
		require.NoError(t, err)
	}

	// oldest turns beyond the window are dropped, not summarized
	assert.Len(t, fake.lastRequest.History, 4)
	final, err := engine.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, final.Transcript, 11) // 2*turnCount + 1
	assert.Equal(t, 5, final.TurnCount)
}
