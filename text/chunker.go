package text

import (
	"regexp"
	"strings"

	"github.com/poiesic/docfind/core"
)

const (
	// DefaultTargetTokens is the token budget a chunk accumulates
	// sentences toward before it is emitted.
	DefaultTargetTokens = 200

	// DefaultSentenceOverlap is the number of trailing sentences
	// carried forward into the next chunk on the same page.
	DefaultSentenceOverlap = 1
)

// ChunkOptions configures page chunking.
type ChunkOptions struct {
	TargetTokens    int
	SentenceOverlap int
	MaxKeywords     int // keywords extracted per chunk; 0 disables extraction
}

// DefaultChunkOptions returns the standard chunking configuration.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		TargetTokens:    DefaultTargetTokens,
		SentenceOverlap: DefaultSentenceOverlap,
		MaxKeywords:     5,
	}
}

var sentenceBoundary = regexp.MustCompile(`(?s)(.*?[.!?])\s+`)

// SplitSentences splits text at sentence boundaries: after '.', '!'
// or '?' followed by whitespace. Text with no boundary at all comes
// back as a single sentence.
func SplitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceBoundary.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sentence := strings.TrimSpace(rest[loc[2]:loc[3]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		rest = rest[loc[1]:]
	}
	if trimmed := strings.TrimSpace(rest); trimmed != "" {
		sentences = append(sentences, trimmed)
	}
	return sentences
}

// ChunkPage turns one page of raw text into index-ready chunks.
// Sentences accumulate into a buffer until the buffer's token count
// reaches the target, then a chunk is emitted and the last overlap
// sentences carry forward into the next buffer. Chunks whose token
// list is empty after filtering are discarded.
//
// Empty or whitespace-only input yields an empty chunk list.
func ChunkPage(pageText string, page int, opts ChunkOptions) []*core.Chunk {
	if opts.TargetTokens <= 0 {
		opts.TargetTokens = DefaultTargetTokens
	}
	if opts.SentenceOverlap < 0 {
		opts.SentenceOverlap = 0
	}

	if strings.TrimSpace(pageText) == "" {
		return nil
	}

	sentences := SplitSentences(pageText)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []*core.Chunk
	var buffer []string
	bufferTokens := 0
	freshSentences := 0 // sentences added since the last emit, excluding overlap carry

	emit := func() {
		if len(buffer) == 0 || freshSentences == 0 {
			return
		}
		chunkText := strings.Join(buffer, " ")
		if c := newChunk(chunkText, page, len(chunks), opts); c != nil {
			chunks = append(chunks, c)
		}
	}

	for _, sentence := range sentences {
		buffer = append(buffer, sentence)
		bufferTokens += len(Tokenize(sentence))
		freshSentences++

		if bufferTokens >= opts.TargetTokens {
			emit()

			// Carry the overlap window into the next buffer.
			overlap := opts.SentenceOverlap
			if overlap > len(buffer) {
				overlap = len(buffer)
			}
			buffer = append([]string(nil), buffer[len(buffer)-overlap:]...)
			bufferTokens = 0
			for _, s := range buffer {
				bufferTokens += len(Tokenize(s))
			}
			freshSentences = 0
		}
	}
	emit()

	return chunks
}

// newChunk builds a single chunk, or nil if its tokens filter to nothing.
func newChunk(chunkText string, page, index int, opts ChunkOptions) *core.Chunk {
	tokens := Tokenize(chunkText)
	if len(tokens) == 0 {
		return nil
	}

	chunk := &core.Chunk{
		ID:      core.NewChunkID(page, index),
		Page:    page,
		Index:   index,
		Text:    chunkText,
		Tokens:  tokens,
		Length:  len(tokens),
		Section: DetectSectionType(chunkText),
		Content: DetectContentType(chunkText),
	}
	if opts.MaxKeywords > 0 {
		chunk.Keywords = ExtractKeywords(chunkText, opts.MaxKeywords)
	}
	return chunk
}
