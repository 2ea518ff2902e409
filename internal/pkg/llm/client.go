package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

// DecisionRequest carries everything a backend needs to produce a teacher
// decision for one turn. History is the already-bounded transcript window.
type DecisionRequest struct {
	Scenario     content.Scenario
	Persona      content.Persona
	History      []entity.TranscriptMessage
	PendingRetry *entity.PendingRetry
}

// NarrationRequest asks for a single in-character sentence describing a tool
// side effect that already happened. Narration responses carry no tool by
// construction.
type NarrationRequest struct {
	Scenario content.Scenario
	Persona  content.Persona
	Tool     entity.ToolName
	Message  string
}

// DecisionClient is the language-model collaborator. Both methods may fail;
// the turn engine recovers locally and never propagates these errors to the
// caller of a turn.
type DecisionClient interface {
	GenerateDecision(ctx context.Context, req DecisionRequest) (*entity.TeacherDecision, error)
	GenerateNarration(ctx context.Context, req NarrationRequest) (string, error)
}

// stripCodeFence removes a markdown code fence if the model wrapped its JSON
// in one, despite instructions.
func stripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func parseDecision(text string) (*entity.TeacherDecision, error) {
	clean := stripCodeFence(text)

	var decision entity.TeacherDecision
	if err := json.Unmarshal([]byte(clean), &decision); err != nil {
		return nil, fmt.Errorf("model output is not valid decision json: %w", err)
	}
	return &decision, nil
}
