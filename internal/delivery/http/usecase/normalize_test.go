package usecase

import (
	"testing"

	"github.com/fluenta/tutor-be/internal/content"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Soy De NY", "soy de ny"},
		{"trims and collapses spaces", "  soy   de   ny  ", "soy de ny"},
		{"strips trailing punctuation", "Soy de NY.", "soy de ny"},
		{"strips leading punctuation", "...al mercado", "al mercado"},
		{"strips mixed boundary punctuation", "?!al mercado;:", "al mercado"},
		{"keeps inner punctuation", "¿cómo estás, lucía?", "¿cómo estás, lucía"},
		{"empty", "", ""},
		{"punctuation only", "?!.", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeText(tc.in))
		})
	}
}

// The stripped set is exactly `. , ! ? ; :` and only at string boundaries.
// The inverted exclamation mark is not in the set, and inner punctuation
// survives collapsing.
func TestNormalizeTextBoundarySet(t *testing.T) {
	got := NormalizeText("¡Hola!  Mundo.")
	assert.Equal(t, "¡hola! mundo", got)
	assert.NotEqual(t, "hola mundo", got)
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"Soy de NY.",
		"  ¡Hola!  Mundo. ",
		"al mercado",
		"voy al mercado ...",
		"",
		"?!",
		"a . b",
	}
	for _, s := range inputs {
		once := NormalizeText(s)
		assert.Equal(t, once, NormalizeText(once), "input %q", s)
	}
}

func TestNormalizedEquality(t *testing.T) {
	assert.Equal(t, NormalizeText("Soy de NY."), NormalizeText("soy   de ny"))
	assert.Equal(t, NormalizeText("Al mercado!"), NormalizeText("  al MERCADO"))
	assert.NotEqual(t, NormalizeText("al mercado"), NormalizeText("el mercado"))
}

func TestRetryMessage(t *testing.T) {
	persona := content.Persona{
		Name:           "Lucía",
		RetryEncourage: "Try again: \"%s\"",
		RetryInsist:    "Say exactly: \"%s\"",
	}

	assert.Equal(t, `Try again: "al mercado"`, retryMessage(persona, "Al mercado.", 1))
	assert.Equal(t, `Try again: "al mercado"`, retryMessage(persona, "al mercado", 2))
	assert.Equal(t, `Say exactly: "al mercado"`, retryMessage(persona, "al mercado", 3))
}

func TestRetryMessageDefaultTemplate(t *testing.T) {
	msg := retryMessage(content.Persona{}, "al mercado", 1)
	assert.Contains(t, msg, "al mercado")
}
