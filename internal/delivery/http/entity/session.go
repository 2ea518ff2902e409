package entity

import "time"

type Phase string

const (
	PhaseRoleplay  Phase = "roleplay"
	PhaseQuiz      Phase = "quiz"
	PhaseCompleted Phase = "completed"
)

// rank orders phases so transitions can only move forward.
func (p Phase) rank() int {
	switch p {
	case PhaseRoleplay:
		return 0
	case PhaseQuiz:
		return 1
	case PhaseCompleted:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether moving to next is a forward transition.
func (p Phase) CanAdvanceTo(next Phase) bool {
	return next.rank() > p.rank()
}

type Role string

const (
	RoleLearner Role = "learner"
	RoleTutor   Role = "tutor"
)

// TranscriptMessage is immutable once appended to a session transcript.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Mistake is appended via the log_mistake tool and never mutated.
type Mistake struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Original  string    `json:"original"`
	Corrected string    `json:"corrected,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingRetry is an open correction the learner must reproduce verbatim
// (after normalization) before the conversation progresses normally.
type PendingRetry struct {
	Expected string `json:"expected"`
	Attempts int    `json:"attempts"`
}

type ActiveQuiz struct {
	QuizID    string    `json:"quiz_id"`
	StartedAt time.Time `json:"started_at"`
}

type QuizResult struct {
	QuizID      string    `json:"quiz_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Answers     []int     `json:"answers"`
	CompletedAt time.Time `json:"completed_at"`
}

type SessionCompletion struct {
	Summary     string    `json:"summary"`
	CompletedAt time.Time `json:"completed_at"`
}

// Session is the unit of conversation state, owned exclusively by the turn engine.
type Session struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	LevelID      string              `json:"level_id"`
	ScenarioID   string              `json:"scenario_id"`
	Phase        Phase               `json:"phase"`
	Transcript   []TranscriptMessage `json:"transcript"`
	TurnCount    int                 `json:"turn_count"`
	Mistakes     []Mistake           `json:"mistakes"`
	PostQuizID   string              `json:"post_quiz_id,omitempty"`
	PendingRetry *PendingRetry       `json:"pending_retry,omitempty"`
	LastDecision *TeacherDecision    `json:"last_decision,omitempty"`
	ActiveQuiz   *ActiveQuiz         `json:"active_quiz,omitempty"`
	QuizResult   *QuizResult         `json:"quiz_result,omitempty"`
	Completion   *SessionCompletion  `json:"completion,omitempty"`
}

// RecentTranscript returns at most the last n transcript messages. Older turns
// are simply dropped, never summarized.
func (s *Session) RecentTranscript(n int) []TranscriptMessage {
	if n <= 0 || len(s.Transcript) <= n {
		return s.Transcript
	}
	return s.Transcript[len(s.Transcript)-n:]
}

// TurnTiming is wall-clock metadata for one processed turn, in milliseconds.
type TurnTiming struct {
	LLMMs  int64 `json:"llm_ms"`
	ToolMs int64 `json:"tool_ms"`
}

// SessionSummary is the lightweight summary returned when a session is ended
// out-of-band.
type SessionSummary struct {
	Turns   int    `json:"turns"`
	HasQuiz bool   `json:"has_quiz"`
	QuizID  string `json:"quiz_id,omitempty"`
}
