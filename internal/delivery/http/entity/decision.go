package entity

import "encoding/json"

// TeacherDecision is the structured decision produced by the language model for
// one turn. Reply is the only text ever shown to the learner for that turn.
// ShouldRetry == true requires a non-empty Correction; that invariant is
// enforced by decision validation, not here.
type TeacherDecision struct {
	Feedback    string    `json:"feedback"`
	Correction  string    `json:"correction,omitempty"`
	IsMistake   bool      `json:"is_mistake"`
	ShouldRetry bool      `json:"should_retry"`
	NextPhase   string    `json:"next_phase,omitempty"`
	Tool        *ToolCall `json:"tool,omitempty"`
	Reply       string    `json:"reply"`
}

type ToolName string

const (
	ToolStartQuiz    ToolName = "start_quiz"
	ToolGradeQuiz    ToolName = "grade_quiz"
	ToolGetHint      ToolName = "get_hint"
	ToolLogMistake   ToolName = "log_mistake"
	ToolMarkComplete ToolName = "mark_complete"
)

// KnownTools is the closed set of tool variants. Adding a variant here without
// updating the executor and applier switches makes them return an
// "unhandled tool" failure, which the executor tests catch.
var KnownTools = map[ToolName]bool{
	ToolStartQuiz:    true,
	ToolGradeQuiz:    true,
	ToolGetHint:      true,
	ToolLogMistake:   true,
	ToolMarkComplete: true,
}

// ToolCall is a tagged union: Name selects the variant, Args carries the
// variant's argument shape.
type ToolCall struct {
	Name ToolName        `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type StartQuizArgs struct {
	QuizID string `json:"quiz_id"`
}

type GradeQuizArgs struct {
	QuizID  string `json:"quiz_id"`
	Answers []int  `json:"answers"`
}

type GetHintArgs struct {
	Topic string `json:"topic,omitempty"`
}

type LogMistakeArgs struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Type      string `json:"type,omitempty"`
}

type MarkCompleteArgs struct {
	Summary string `json:"summary"`
}

// ToolResult is the outcome of evaluating one tool against the pre-turn
// session. It never mutates session state itself; the applier does that.
type ToolResult struct {
	Tool       ToolName           `json:"tool"`
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	ActiveQuiz *ActiveQuiz        `json:"active_quiz,omitempty"`
	QuizResult *QuizResult        `json:"quiz_result,omitempty"`
	Mistake    *Mistake           `json:"mistake,omitempty"`
	Completion *SessionCompletion `json:"completion,omitempty"`
	Hint       string             `json:"hint,omitempty"`
}
