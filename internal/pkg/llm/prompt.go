package llm

import (
	"fmt"
	"strings"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

const decisionSystemTemplate = `You are %s, %s. You are roleplaying the scenario "%s" (%s) with a language learner.
Learning goals: %s.

After the learner's latest message, decide how to respond. Stay in character.
If the learner made a language mistake worth correcting, set "is_mistake" and put the corrected phrase in "correction".
Set "should_retry" only when the learner should repeat the corrected phrase before the conversation moves on; "should_retry" always requires a non-empty "correction".

You may request AT MOST ONE tool:
- {"name":"start_quiz","args":{"quiz_id":"..."}} to unlock the post-roleplay quiz
- {"name":"grade_quiz","args":{"quiz_id":"...","answers":[0,1,-1]}} to grade spoken quiz answers (-1 = unanswered)
- {"name":"get_hint","args":{"topic":"..."}} for a study hint
- {"name":"log_mistake","args":{"original":"...","corrected":"...","type":"..."}} to record a mistake
- {"name":"mark_complete","args":{"summary":"..."}} to end the lesson

IMPORTANT: Return ONLY valid JSON, NO markdown, NO code blocks.
JSON format:
{"feedback":"...","correction":"...","is_mistake":false,"should_retry":false,"tool":null,"reply":"..."}`

const narrationSystemTemplate = `You are %s, %s, in the scenario "%s".
A lesson action just happened on the server. Phrase it to the learner in one or two in-character sentences.
Return plain text only, no JSON, no tool requests.`

func buildDecisionSystem(req DecisionRequest) string {
	return fmt.Sprintf(decisionSystemTemplate,
		req.Persona.Name,
		req.Persona.Style,
		req.Scenario.Title,
		req.Scenario.Setting,
		strings.Join(req.Scenario.Goals, "; "),
	)
}

// buildRetryContext tells the model about an escalated open correction, so it
// can intervene after repeated failed attempts.
func buildRetryContext(pr *entity.PendingRetry) string {
	if pr == nil {
		return ""
	}
	return fmt.Sprintf(
		"NOTE: the learner has an open correction (%q) and has failed to repeat it %d times. Consider a stronger intervention: rephrase the correction, break it into parts, or let it go if it blocks progress.",
		pr.Expected, pr.Attempts,
	)
}

func buildNarrationSystem(req NarrationRequest) string {
	return fmt.Sprintf(narrationSystemTemplate,
		req.Persona.Name,
		req.Persona.Style,
		req.Scenario.Title,
	)
}

func buildNarrationUser(req NarrationRequest) string {
	return fmt.Sprintf("Action: %s. Result: %s", req.Tool, req.Message)
}

// flattenDecisionPrompt renders the whole request as one prompt for backends
// without a chat-message API shape.
func flattenDecisionPrompt(req DecisionRequest) string {
	var b strings.Builder
	b.WriteString(buildDecisionSystem(req))
	b.WriteString("\n\nConversation so far:\n")
	for _, msg := range req.History {
		b.WriteString(fmt.Sprintf("[%s] %s\n", msg.Role, msg.Text))
	}
	if note := buildRetryContext(req.PendingRetry); note != "" {
		b.WriteString("\n")
		b.WriteString(note)
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with the decision JSON now.")
	return b.String()
}
