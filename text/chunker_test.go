package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/core"
)

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("One fish. Two fish! Red fish? Blue fish")
	assert.Equal(t, []string{"One fish.", "Two fish!", "Red fish?", "Blue fish"}, sentences)
}

func TestSplitSentences_NoBoundary(t *testing.T) {
	sentences := SplitSentences("no terminal punctuation at all")
	assert.Equal(t, []string{"no terminal punctuation at all"}, sentences)
}

func TestSplitSentences_Empty(t *testing.T) {
	assert.Empty(t, SplitSentences(""))
	assert.Empty(t, SplitSentences("   "))
}

// Six sentences of six kept tokens each. With a target of 10 tokens a
// chunk is emitted after every second sentence.
var chunkerSentences = []string{
	"Alpha bravo charlie delta echo foxtrot.",
	"Golf hotel india juliet kilo lima.",
	"Mike november oscar papa quebec romeo.",
	"Sierra tango uniform victor whiskey xray.",
	"Yankee zulu apple banana cherry date.",
	"Elder fig grape honey iris jasmine.",
}

func TestChunkPage_OverlapCarriesSentence(t *testing.T) {
	opts := ChunkOptions{TargetTokens: 10, SentenceOverlap: 1}
	chunks := ChunkPage(strings.Join(chunkerSentences, " "), 3, opts)
	require.Len(t, chunks, 5)

	// Each chunk after the first starts with the previous chunk's last
	// sentence.
	for i := 1; i < len(chunks); i++ {
		prev := SplitSentences(chunks[i-1].Text)
		assert.True(t, strings.HasPrefix(chunks[i].Text, prev[len(prev)-1]),
			"chunk %d must start with the carried overlap sentence", i)
	}
}

func TestChunkPage_CoversEverySentence(t *testing.T) {
	opts := ChunkOptions{TargetTokens: 10, SentenceOverlap: 1}
	chunks := ChunkPage(strings.Join(chunkerSentences, " "), 1, opts)

	joined := make([]string, len(chunks))
	for i, c := range chunks {
		joined[i] = c.Text
	}
	all := strings.Join(joined, " ")

	for _, sentence := range chunkerSentences {
		assert.Contains(t, all, sentence, "no sentence may be dropped")
	}
}

func TestChunkPage_NoOverlapOnlyTrailingChunk(t *testing.T) {
	opts := ChunkOptions{TargetTokens: 10, SentenceOverlap: 1}
	chunks := ChunkPage(strings.Join(chunkerSentences, " "), 1, opts)

	last := chunkerSentences[len(chunkerSentences)-1]
	for _, c := range chunks {
		assert.NotEqual(t, last, c.Text, "a chunk holding only carried overlap must not be emitted")
	}
}

func TestChunkPage_Metadata(t *testing.T) {
	opts := DefaultChunkOptions()
	chunks := ChunkPage("The pump fails because the seal leaks. Therefore replace the seal first.", 7, opts)
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, core.NewChunkID(7, 0), chunk.ID)
	assert.Equal(t, 7, chunk.Page)
	assert.Equal(t, 0, chunk.Index)
	assert.Equal(t, len(chunk.Tokens), chunk.Length)
	assert.Equal(t, core.SectionExplanation, chunk.Section)
	assert.LessOrEqual(t, len(chunk.Keywords), opts.MaxKeywords)
	assert.NotEmpty(t, chunk.Keywords)
}

func TestChunkPage_EmptyInput(t *testing.T) {
	assert.Empty(t, ChunkPage("", 1, DefaultChunkOptions()))
	assert.Empty(t, ChunkPage("  \n ", 1, DefaultChunkOptions()))
}

func TestChunkPage_WholeTextFallback(t *testing.T) {
	chunks := ChunkPage("single fragment without terminal punctuation", 2, DefaultChunkOptions())
	require.Len(t, chunks, 1)
	assert.Equal(t, "single fragment without terminal punctuation", chunks[0].Text)
}
