package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords_RanksRepeatedPhrase(t *testing.T) {
	text := "Hydraulic pressure drops. Hydraulic pressure recovers slowly. Check valves daily."
	keywords := ExtractKeywords(text, 2)
	require.NotEmpty(t, keywords)
	assert.Equal(t, "Hydraulic pressure recovers slowly", keywords[0],
		"the longest phrase built from high-degree words should rank first")
}

func TestExtractKeywords_DeduplicatesByLowercase(t *testing.T) {
	keywords := ExtractKeywords("Coolant Loop. coolant loop. COOLANT LOOP.", 5)
	assert.Len(t, keywords, 1)
	assert.Equal(t, "Coolant Loop", keywords[0], "first occurrence wins")
}

func TestExtractKeywords_CapsResultCount(t *testing.T) {
	text := "alpha one. bravo two. charlie three. delta four. echo five."
	keywords := ExtractKeywords(text, 3)
	assert.Len(t, keywords, 3)
}

func TestExtractKeywords_ZeroMax(t *testing.T) {
	assert.Nil(t, ExtractKeywords("anything at all", 0))
}

func TestExtractKeywords_StopwordOnlyText(t *testing.T) {
	assert.Empty(t, ExtractKeywords("the and of with", 5))
}
