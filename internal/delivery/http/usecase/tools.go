package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

// ExecuteTool evaluates one tool request against the pre-turn session and the
// content library. It is a pure function over its inputs: session state is
// never mutated here, only read. ApplyTool maps the result onto the session.
func ExecuteTool(lib *content.Library, session *entity.Session, call *entity.ToolCall, now time.Time, newID func() string) entity.ToolResult {
	result := entity.ToolResult{Tool: call.Name}

	switch call.Name {
	case entity.ToolStartQuiz:
		var args entity.StartQuizArgs
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return failure(call.Name, "start_quiz args do not parse")
		}
		if _, ok := lib.Quiz(args.QuizID); !ok {
			return failure(call.Name, fmt.Sprintf("unknown quiz %q", args.QuizID))
		}
		result.Success = true
		result.Message = fmt.Sprintf("Quiz %s started", args.QuizID)
		result.ActiveQuiz = &entity.ActiveQuiz{QuizID: args.QuizID, StartedAt: now}

	case entity.ToolGradeQuiz:
		var args entity.GradeQuizArgs
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return failure(call.Name, "grade_quiz args do not parse")
		}
		quizResult, err := gradeQuiz(lib, args.QuizID, args.Answers, now)
		if err != nil {
			return failure(call.Name, err.Error())
		}
		result.Success = true
		result.Message = fmt.Sprintf("Quiz graded: %d/100 over %d questions", quizResult.Score, quizResult.Total)
		result.QuizResult = quizResult

	case entity.ToolGetHint:
		var args entity.GetHintArgs
		// A broken args payload degrades to the generic hint; get_hint never fails.
		_ = json.Unmarshal(call.Args, &args)
		result.Success = true
		result.Hint = lookupHint(lib, session, args.Topic)
		result.Message = result.Hint

	case entity.ToolLogMistake:
		var args entity.LogMistakeArgs
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return failure(call.Name, "log_mistake args do not parse")
		}
		result.Success = true
		result.Mistake = &entity.Mistake{
			ID:        newID(),
			Type:      args.Type,
			Original:  args.Original,
			Corrected: args.Corrected,
			Timestamp: now,
		}
		result.Message = fmt.Sprintf("Noted: %q should be %q", args.Original, args.Corrected)

	case entity.ToolMarkComplete:
		var args entity.MarkCompleteArgs
		_ = json.Unmarshal(call.Args, &args)
		result.Success = true
		result.Completion = &entity.SessionCompletion{Summary: args.Summary, CompletedAt: now}
		result.Message = "Lesson complete"

	default:
		return failure(call.Name, fmt.Sprintf("unhandled tool %q", call.Name))
	}

	return result
}

func failure(tool entity.ToolName, msg string) entity.ToolResult {
	return entity.ToolResult{Tool: tool, Success: false, Message: msg}
}

func gradeQuiz(lib *content.Library, quizID string, answers []int, now time.Time) (*entity.QuizResult, error) {
	quiz, ok := lib.Quiz(quizID)
	if !ok {
		return nil, fmt.Errorf("unknown quiz %q", quizID)
	}
	if len(answers) != len(quiz.Items) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(quiz.Items), len(answers))
	}

	correct := 0
	for i, answer := range answers {
		item := quiz.Items[i]
		// -1 denotes "unanswered" and always counts as incorrect.
		if answer < -1 || answer >= len(item.Options) {
			return nil, fmt.Errorf("answer %d out of range for question %d", answer, i)
		}
		if answer == item.Correct {
			correct++
		}
	}

	score := int(math.Round(float64(correct) / float64(len(quiz.Items)) * 100))
	return &entity.QuizResult{
		QuizID:      quizID,
		Score:       score,
		Total:       len(quiz.Items),
		Answers:     answers,
		CompletedAt: now,
	}, nil
}

func lookupHint(lib *content.Library, session *entity.Session, topic string) string {
	if topic != "" {
		if hint, ok := lib.Hint(topic); ok {
			return hint
		}
	}
	if scenario, ok := lib.Scenario(session.ScenarioID); ok && len(scenario.Goals) > 0 {
		return fmt.Sprintf("Focus on the lesson goals: %s.", strings.Join(scenario.Goals, "; "))
	}
	return "Keep practicing the phrases from this conversation."
}

// ApplyTool maps a tool result onto the session. Phase only ever advances
// (roleplay → quiz → completed); a failed result changes nothing beyond the
// update timestamp.
func ApplyTool(session *entity.Session, result entity.ToolResult, now time.Time) {
	session.UpdatedAt = now
	if !result.Success {
		return
	}

	switch result.Tool {
	case entity.ToolStartQuiz:
		session.ActiveQuiz = result.ActiveQuiz
		if session.Phase.CanAdvanceTo(entity.PhaseQuiz) {
			session.Phase = entity.PhaseQuiz
		}
	case entity.ToolGradeQuiz:
		session.QuizResult = result.QuizResult
	case entity.ToolGetHint:
		// read-only
	case entity.ToolLogMistake:
		if result.Mistake != nil {
			session.Mistakes = append(session.Mistakes, *result.Mistake)
		}
	case entity.ToolMarkComplete:
		session.Completion = result.Completion
		if session.Phase.CanAdvanceTo(entity.PhaseCompleted) {
			session.Phase = entity.PhaseCompleted
		}
	}
}

// needsNarration reports whether a successful tool's effect is significant
// enough to narrate with a follow-up model call.
func needsNarration(tool entity.ToolName) bool {
	switch tool {
	case entity.ToolStartQuiz, entity.ToolGradeQuiz, entity.ToolMarkComplete:
		return true
	}
	return false
}
