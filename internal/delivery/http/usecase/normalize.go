package usecase

import (
	"fmt"
	"strings"

	"github.com/fluenta/tutor-be/internal/content"
)

// boundaryPunctuation is the exact set stripped from string boundaries during
// normalization. Inner punctuation is left alone.
const boundaryPunctuation = ".,!?;:"

// NormalizeText canonicalizes learner text for equality comparison:
// lowercase, trim, collapse whitespace runs, then strip leading/trailing
// punctuation. Equality of corrections is normalized-string equality; there is
// no fuzzy matching.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, boundaryPunctuation)
	return strings.TrimSpace(s)
}

// retryMessage composes a persona-flavored nudge for a failed gated retry.
// Purely local string work: the cheap-retry path has zero network dependency.
func retryMessage(persona content.Persona, expected string, attempts int) string {
	tpl := persona.RetryEncourage
	if attempts > 2 {
		tpl = persona.RetryInsist
	}
	if tpl == "" {
		tpl = "Not quite. Try once more: \"%s\""
	}
	return fmt.Sprintf(tpl, NormalizeText(expected))
}
