package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

// FallbackReply is the fixed apologetic reply used whenever the model call
// fails or its decision does not validate. A turn always produces a tutor
// reply.
const FallbackReply = "Perdón, me distraje un momento. ¿Puedes repetir eso?"

// FallbackDecision is the deterministic substitute for an invalid or missing
// model decision: no mistake, no retry, no tool.
func FallbackDecision() *entity.TeacherDecision {
	return &entity.TeacherDecision{
		IsMistake:   false,
		ShouldRetry: false,
		Tool:        nil,
		Reply:       FallbackReply,
	}
}

// ValidateDecision checks a model-produced decision against the structural
// rules. It returns an error describing the first violation; callers replace
// invalid decisions with FallbackDecision rather than surfacing the error.
func ValidateDecision(d *entity.TeacherDecision) error {
	if d == nil {
		return fmt.Errorf("decision is nil")
	}
	if d.Reply == "" {
		return fmt.Errorf("decision has empty reply")
	}
	if d.ShouldRetry && d.Correction == "" {
		return fmt.Errorf("should_retry requires a non-empty correction")
	}
	if d.Tool != nil {
		if err := validateToolCall(d.Tool); err != nil {
			return err
		}
	}
	return nil
}

func validateToolCall(call *entity.ToolCall) error {
	if !entity.KnownTools[call.Name] {
		return fmt.Errorf("unknown tool %q", call.Name)
	}

	switch call.Name {
	case entity.ToolStartQuiz:
		var args entity.StartQuizArgs
		if err := unmarshalArgs(call.Args, &args); err != nil {
			return err
		}
		if args.QuizID == "" {
			return fmt.Errorf("start_quiz requires quiz_id")
		}
	case entity.ToolGradeQuiz:
		var args entity.GradeQuizArgs
		if err := unmarshalArgs(call.Args, &args); err != nil {
			return err
		}
		if args.QuizID == "" {
			return fmt.Errorf("grade_quiz requires quiz_id")
		}
	case entity.ToolGetHint:
		var args entity.GetHintArgs
		if err := unmarshalArgs(call.Args, &args); err != nil {
			return err
		}
	case entity.ToolLogMistake:
		var args entity.LogMistakeArgs
		if err := unmarshalArgs(call.Args, &args); err != nil {
			return err
		}
		if args.Original == "" {
			return fmt.Errorf("log_mistake requires original text")
		}
	case entity.ToolMarkComplete:
		var args entity.MarkCompleteArgs
		if err := unmarshalArgs(call.Args, &args); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unhandled tool %q", call.Name)
	}
	return nil
}

func unmarshalArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("tool args do not parse: %w", err)
	}
	return nil
}
