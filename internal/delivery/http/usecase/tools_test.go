package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLibrary has a 3-item quiz with correct indices [0, 1, 2] so grading
// results are easy to reason about.
func testLibrary() *content.Library {
	return content.NewLibrary(
		[]content.Level{{ID: "lvl-1", Name: "Test", Language: "es"}},
		[]content.Scenario{{
			ID:             "sc-1",
			LevelID:        "lvl-1",
			Title:          "Test scenario",
			Goals:          []string{"greet people", "count to ten"},
			PersonaID:      "p-1",
			InitialMessage: "¡Hola!",
			PostQuizID:     "q1",
		}},
		[]content.Persona{{ID: "p-1", Name: "Test", RetryEncourage: "again: %q", RetryInsist: "exactly: %q"}},
		[]content.Quiz{{
			ID:    "q1",
			Title: "Test quiz",
			Items: []content.QuizItem{
				{Prompt: "a", Options: []string{"x", "y", "z"}, Correct: 0},
				{Prompt: "b", Options: []string{"x", "y", "z"}, Correct: 1},
				{Prompt: "c", Options: []string{"x", "y", "z"}, Correct: 2},
			},
		}},
		map[string]string{"numbers": "count with uno, dos, tres"},
	)
}

func testSession() *entity.Session {
	return &entity.Session{
		ID:         "s-1",
		LevelID:    "lvl-1",
		ScenarioID: "sc-1",
		Phase:      entity.PhaseRoleplay,
		PostQuizID: "q1",
	}
}

func toolCall(t *testing.T, name entity.ToolName, args any) *entity.ToolCall {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return &entity.ToolCall{Name: name, Args: raw}
}

func staticID() string { return "fixed-id" }

func TestStartQuizTool(t *testing.T) {
	lib := testLibrary()
	now := time.Now()

	t.Run("known quiz", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolStartQuiz, entity.StartQuizArgs{QuizID: "q1"}), now, staticID)
		require.True(t, result.Success)
		require.NotNil(t, result.ActiveQuiz)
		assert.Equal(t, "q1", result.ActiveQuiz.QuizID)
		assert.Equal(t, now, result.ActiveQuiz.StartedAt)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolStartQuiz, entity.StartQuizArgs{QuizID: "nope"}), now, staticID)
		assert.False(t, result.Success)
		assert.Nil(t, result.ActiveQuiz)
	})

	t.Run("applier advances phase", func(t *testing.T) {
		session := testSession()
		result := ExecuteTool(lib, session, toolCall(t, entity.ToolStartQuiz, entity.StartQuizArgs{QuizID: "q1"}), now, staticID)
		ApplyTool(session, result, now)
		assert.Equal(t, entity.PhaseQuiz, session.Phase)
		assert.NotNil(t, session.ActiveQuiz)
	})
}

func TestGradeQuizTool(t *testing.T) {
	lib := testLibrary()
	now := time.Now()

	t.Run("deterministic scoring", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1, -1}}), now, staticID)
		require.True(t, result.Success)
		require.NotNil(t, result.QuizResult)
		assert.Equal(t, 67, result.QuizResult.Score) // round(2/3*100)
		assert.Equal(t, 3, result.QuizResult.Total)
		assert.Equal(t, []int{0, 1, -1}, result.QuizResult.Answers)
	})

	t.Run("perfect score", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1, 2}}), now, staticID)
		require.True(t, result.Success)
		assert.Equal(t, 100, result.QuizResult.Score)
	})

	t.Run("all unanswered", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{-1, -1, -1}}), now, staticID)
		require.True(t, result.Success)
		assert.Equal(t, 0, result.QuizResult.Score)
	})

	t.Run("length mismatch fails without mutation", func(t *testing.T) {
		session := testSession()
		result := ExecuteTool(lib, session, toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1}}), now, staticID)
		assert.False(t, result.Success)

		ApplyTool(session, result, now)
		assert.Nil(t, session.QuizResult)
		assert.Equal(t, entity.PhaseRoleplay, session.Phase)
	})

	t.Run("out of range answer fails", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1, 3}}), now, staticID)
		assert.False(t, result.Success)

		result = ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1, -2}}), now, staticID)
		assert.False(t, result.Success)
	})

	t.Run("grading does not change phase", func(t *testing.T) {
		session := testSession()
		result := ExecuteTool(lib, session, toolCall(t, entity.ToolGradeQuiz, entity.GradeQuizArgs{QuizID: "q1", Answers: []int{0, 1, 2}}), now, staticID)
		ApplyTool(session, result, now)
		assert.Equal(t, entity.PhaseRoleplay, session.Phase)
		assert.NotNil(t, session.QuizResult)
	})
}

func TestGetHintTool(t *testing.T) {
	lib := testLibrary()
	now := time.Now()

	t.Run("known topic", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGetHint, entity.GetHintArgs{Topic: "numbers"}), now, staticID)
		require.True(t, result.Success)
		assert.Equal(t, "count with uno, dos, tres", result.Hint)
	})

	t.Run("unknown topic falls back to scenario goals", func(t *testing.T) {
		result := ExecuteTool(lib, testSession(), toolCall(t, entity.ToolGetHint, entity.GetHintArgs{Topic: "subjunctive"}), now, staticID)
		require.True(t, result.Success)
		assert.Contains(t, result.Hint, "greet people")
	})

	t.Run("never mutates", func(t *testing.T) {
		session := testSession()
		result := ExecuteTool(lib, session, toolCall(t, entity.ToolGetHint, entity.GetHintArgs{}), now, staticID)
		ApplyTool(session, result, now)
		assert.Equal(t, entity.PhaseRoleplay, session.Phase)
		assert.Empty(t, session.Mistakes)
	})
}

func TestLogMistakeTool(t *testing.T) {
	lib := testLibrary()
	now := time.Now()
	session := testSession()

	result := ExecuteTool(lib, session, toolCall(t, entity.ToolLogMistake, entity.LogMistakeArgs{
		Original:  "yo es de ny",
		Corrected: "yo soy de ny",
		Type:      "conjugation",
	}), now, staticID)
	require.True(t, result.Success)
	require.NotNil(t, result.Mistake)
	assert.Equal(t, "fixed-id", result.Mistake.ID)

	ApplyTool(session, result, now)
	require.Len(t, session.Mistakes, 1)
	assert.Equal(t, "conjugation", session.Mistakes[0].Type)
	assert.Equal(t, "yo es de ny", session.Mistakes[0].Original)
}

func TestMarkCompleteTool(t *testing.T) {
	lib := testLibrary()
	now := time.Now()
	session := testSession()

	result := ExecuteTool(lib, session, toolCall(t, entity.ToolMarkComplete, entity.MarkCompleteArgs{Summary: "great progress"}), now, staticID)
	require.True(t, result.Success)

	ApplyTool(session, result, now)
	assert.Equal(t, entity.PhaseCompleted, session.Phase)
	require.NotNil(t, session.Completion)
	assert.Equal(t, "great progress", session.Completion.Summary)
}

func TestApplyToolFailureOnlyTouchesTimestamp(t *testing.T) {
	now := time.Now()
	session := testSession()
	before := *session

	ApplyTool(session, entity.ToolResult{Tool: entity.ToolStartQuiz, Success: false, Message: "nope"}, now)

	assert.Equal(t, before.Phase, session.Phase)
	assert.Nil(t, session.ActiveQuiz)
	assert.Equal(t, now, session.UpdatedAt)
}

func TestPhaseNeverRegresses(t *testing.T) {
	lib := testLibrary()
	now := time.Now()
	session := testSession()
	session.Phase = entity.PhaseCompleted

	result := ExecuteTool(lib, session, toolCall(t, entity.ToolStartQuiz, entity.StartQuizArgs{QuizID: "q1"}), now, staticID)
	ApplyTool(session, result, now)

	assert.Equal(t, entity.PhaseCompleted, session.Phase)
}
