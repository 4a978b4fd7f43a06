package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_Basic(t *testing.T) {
	tokens := Tokenize("The Quick, Brown fox!")
	assert.Equal(t, []string{"quick", "brown", "fox"}, tokens)
}

func TestTokenize_KeepsNumericTokens(t *testing.T) {
	tokens := Tokenize("error 404 on page 12")
	assert.Equal(t, []string{"error", "404", "page", "12"}, tokens, "standalone numbers must survive filtering")
}

func TestTokenize_DropsShortAndStopwords(t *testing.T) {
	tokens := Tokenize("a b is the x2 pump")
	assert.Equal(t, []string{"x2", "pump"}, tokens)
}

func TestTokenize_EmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \n\t  "))
	assert.Empty(t, Tokenize("the a an"), "stopword-only input yields no tokens")
}

func TestTokenize_Idempotent(t *testing.T) {
	inputs := []string{
		"The capital of France is Paris.",
		"Hydraulic pressure exceeds 3000 psi during startup!",
		"See figure 4-2 for the wiring diagram.",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Tokenize(input)
			second := Tokenize(strings.Join(first, " "))
			assert.Equal(t, first, second, "tokenization must stabilize after one pass")
		})
	}
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("during"))
	assert.False(t, IsStopWord("pump"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("404"))
	assert.False(t, IsNumeric("x2"))
	assert.False(t, IsNumeric(""))
}
