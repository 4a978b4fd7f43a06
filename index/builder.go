package index

import (
	"github.com/poiesic/docfind/core"
)

// Build constructs the inverted index and length statistics from a
// chunk list. It is a pure, single-pass operation: for each chunk the
// per-token frequencies become postings, and the average token length
// across all chunks feeds BM25 length normalization.
//
// Malformed chunks with empty token lists contribute no postings.
// An empty chunk list yields an index with average length 0.
func Build(chunks []*core.Chunk) *core.Index {
	ix := &core.Index{
		Keywords: make(map[string][]core.Posting),
	}
	ix.SetChunks(chunks)

	totalLength := 0
	for _, chunk := range chunks {
		totalLength += chunk.Length

		frequencies := make(map[string]int, len(chunk.Tokens))
		for _, token := range chunk.Tokens {
			frequencies[token]++
		}
		for token, frequency := range frequencies {
			ix.Keywords[token] = append(ix.Keywords[token], core.Posting{
				ChunkID:   chunk.ID,
				Frequency: frequency,
			})
		}
	}

	if len(chunks) > 0 {
		ix.AverageLength = float64(totalLength) / float64(len(chunks))
	}

	return ix
}
