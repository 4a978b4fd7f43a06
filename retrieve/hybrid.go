package retrieve

import (
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/semantic"
	"github.com/poiesic/docfind/text"
)

// FindHybridCandidates fuses phrase-boosted BM25 retrieval with dense
// vector retrieval via reciprocal rank fusion. Both rankings are taken
// at limit*2 depth before fusing down to limit.
//
// RRF combines ranked positions rather than raw scores, which
// neutralizes the very different scales of BM25 scores and cosine
// similarities. When no chunk carries an embedding yet, the vector
// ranking is empty and the fused result degrades to the BM25 order.
func (r *Retriever) FindHybridCandidates(query string, queryEmbedding []float32, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}

	lexical, err := r.FindBoostedCandidates(query, limit*2, pageFilter)
	if err != nil {
		return nil, err
	}

	vector, err := r.vectorCandidates(query, queryEmbedding, limit*2, pageFilter)
	if err != nil {
		return nil, err
	}

	fused := FuseRRF(r.params.RRFK, lexical, vector)

	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

// vectorCandidates ranks every embedded chunk by dense cosine
// similarity to the query embedding, with the same phrase boost and
// TOC demotion the lexical ranking applies.
func (r *Retriever) vectorCandidates(query string, queryEmbedding []float32, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	if len(queryEmbedding) == 0 {
		return nil, nil
	}

	tokens := text.Tokenize(query)
	phrase := NormalizePhrase(query)
	if len(tokens) < 2 || len(phrase) < 4 {
		phrase = ""
	}

	scores := make(map[core.ChunkID]float64)
	for _, chunk := range r.index.Chunks {
		if !chunk.HasEmbedding() {
			continue
		}
		if pageFilter != nil && !pageFilter[chunk.Page] {
			continue
		}

		similarity := semantic.CosineDense(queryEmbedding, chunk.Embedding)
		if similarity <= 0 {
			continue
		}
		scores[chunk.ID] = r.adjustScore(similarity, chunk, phrase)
	}

	return r.rank(scores, tokens, phrase, limit)
}

// FuseRRF merges ranked candidate lists with reciprocal rank fusion:
// each candidate's fused score is the sum over the rankings containing
// it of 1/(k + rank + 1), rank being its 0-based position there.
// Candidates absent from a ranking simply contribute nothing from it.
func FuseRRF(k int, rankings ...[]core.SearchCandidate) []core.SearchCandidate {
	fusedScores := make(map[core.ChunkID]float64)
	byID := make(map[core.ChunkID]core.SearchCandidate)

	for _, ranking := range rankings {
		for rank, candidate := range ranking {
			fusedScores[candidate.ChunkID] += 1 / float64(k+rank+1)
			if _, seen := byID[candidate.ChunkID]; !seen {
				byID[candidate.ChunkID] = candidate
			}
		}
	}

	fused := make([]core.SearchCandidate, 0, len(fusedScores))
	for id, score := range fusedScores {
		candidate := byID[id]
		candidate.Score = score
		fused = append(fused, candidate)
	}

	SortCandidates(fused)
	return fused
}

// MergeByChunk merges candidate lists keeping the highest score per
// chunk id. The merge is commutative and idempotent so the completion
// order of concurrent sub-searches never affects the result.
func MergeByChunk(lists ...[]core.SearchCandidate) []core.SearchCandidate {
	best := make(map[core.ChunkID]core.SearchCandidate)
	for _, list := range lists {
		for _, candidate := range list {
			if existing, ok := best[candidate.ChunkID]; !ok || candidate.Score > existing.Score {
				best[candidate.ChunkID] = candidate
			}
		}
	}

	merged := make([]core.SearchCandidate, 0, len(best))
	for _, candidate := range best {
		merged = append(merged, candidate)
	}
	SortCandidates(merged)
	return merged
}
