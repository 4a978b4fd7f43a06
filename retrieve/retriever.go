package retrieve

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/text"
)

// Retriever ranks chunks of a single-document index against queries.
// It is read-only over the index and safe for concurrent use.
type Retriever struct {
	index  *core.Index
	params Params
	logger *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithParams overrides the retrieval parameters.
func WithParams(params Params) Option {
	return func(r *Retriever) error {
		r.params = params
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over a built index.
func NewRetriever(ix *core.Index, opts ...Option) (*Retriever, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}

	r := &Retriever{
		index:  ix,
		params: DefaultParams(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Index exposes the underlying index for read-only use.
func (r *Retriever) Index() *core.Index {
	return r.index
}

// FindCandidates runs plain BM25 lexical scoring for the query and
// returns up to limit candidates ranked by descending score. A nil
// pageFilter means all pages; otherwise chunks outside the filter are
// excluded from scoring entirely.
//
// A query with no tokens after filtering returns an empty list, not an
// error.
func (r *Retriever) FindCandidates(query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	tokens := text.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := r.bm25Scores(tokens, pageFilter)
	if err != nil {
		return nil, err
	}

	return r.rank(scores, tokens, "", limit)
}

// FindBoostedCandidates is the retriever variant wired into the search
// pipeline: BM25 scoring plus exact-phrase boosting and demotion of
// table-of-contents style chunks.
func (r *Retriever) FindBoostedCandidates(query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	tokens := text.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := r.bm25Scores(tokens, pageFilter)
	if err != nil {
		return nil, err
	}

	phrase := NormalizePhrase(query)
	if len(tokens) < 2 || len(phrase) < 4 {
		phrase = "" // too short to treat as a phrase
	}

	for id, score := range scores {
		chunk, ok := r.index.Chunk(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrIndexCorrupt, id)
		}
		scores[id] = r.adjustScore(score, chunk, phrase)
	}

	return r.rank(scores, tokens, phrase, limit)
}

// bm25Scores accumulates BM25 contributions per chunk across all query
// tokens present in the inverted index.
func (r *Retriever) bm25Scores(tokens []string, pageFilter map[int]bool) (map[core.ChunkID]float64, error) {
	totalChunks := float64(len(r.index.Chunks))
	scores := make(map[core.ChunkID]float64)

	for _, token := range tokens {
		postings, ok := r.index.Keywords[token]
		if !ok {
			continue
		}

		df := float64(len(postings))
		idf := math.Log(1 + (totalChunks-df+0.5)/(df+0.5))

		for _, posting := range postings {
			chunk, ok := r.index.Chunk(posting.ChunkID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", core.ErrIndexCorrupt, posting.ChunkID)
			}
			if pageFilter != nil && !pageFilter[chunk.Page] {
				continue
			}

			tf := float64(posting.Frequency)
			lengthNorm := 1 - r.params.B + r.params.B*float64(chunk.Length)/r.nonZeroAverage()
			scores[posting.ChunkID] += idf * (tf * (r.params.K1 + 1)) / (tf + r.params.K1*lengthNorm)
		}
	}

	return scores, nil
}

func (r *Retriever) nonZeroAverage() float64 {
	if r.index.AverageLength <= 0 {
		return 1
	}
	return r.index.AverageLength
}

// adjustScore applies the phrase boost and TOC demotion to one chunk's
// score. The boost dominates the penalty when both apply.
func (r *Retriever) adjustScore(score float64, chunk *core.Chunk, phrase string) float64 {
	phraseMatch := phrase != "" && strings.Contains(NormalizePhrase(chunk.Text), phrase)

	if phraseMatch {
		score *= r.params.PhraseBoost
	}
	if looksLikeTOC(chunk.Text) {
		if phraseMatch {
			score *= r.params.TOCPhrasePenalty
		} else {
			score *= r.params.TOCPenalty
		}
	}
	return score
}

// rank converts a score map into an ordered, truncated candidate list.
// Ties are broken by page then chunk index so ordering is reproducible.
func (r *Retriever) rank(scores map[core.ChunkID]float64, tokens []string, phrase string, limit int) ([]core.SearchCandidate, error) {
	candidates := make([]core.SearchCandidate, 0, len(scores))
	for id, score := range scores {
		chunk, ok := r.index.Chunk(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrIndexCorrupt, id)
		}

		match := core.MatchFuzzy
		if phrase != "" && strings.Contains(NormalizePhrase(chunk.Text), phrase) {
			match = core.MatchPhrase
		}

		candidates = append(candidates, core.SearchCandidate{
			Page:       chunk.Page,
			ChunkID:    chunk.ID,
			ChunkIndex: chunk.Index,
			Score:      score,
			Match:      match,
			Excerpt:    Excerpt(chunk.Text, tokens),
			Text:       chunk.Text,
		})
	}

	SortCandidates(candidates)

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// SortCandidates orders candidates by descending score, breaking ties
// by page then chunk index.
func SortCandidates(candidates []core.SearchCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Page != candidates[j].Page {
			return candidates[i].Page < candidates[j].Page
		}
		return candidates[i].ChunkIndex < candidates[j].ChunkIndex
	})
}

var smartQuotes = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
)

// NormalizePhrase lowercases text, normalizes smart quotes, and
// collapses whitespace runs so verbatim phrase containment is robust
// to formatting differences.
func NormalizePhrase(s string) string {
	s = smartQuotes.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// looksLikeTOC applies substring heuristics for table-of-contents,
// index, and front-matter pages, which score high lexically but make
// poor evidence.
func looksLikeTOC(chunkText string) bool {
	lowered := strings.ToLower(chunkText)
	if strings.Contains(lowered, "table of contents") {
		return true
	}
	// Dotted leader lines are a strong TOC signal.
	if strings.Contains(lowered, ". . . .") || strings.Contains(lowered, "....") {
		return true
	}
	head := lowered
	if len(head) > 40 {
		head = head[:40]
	}
	for _, marker := range []string{"contents", "index", "introduction"} {
		if strings.HasPrefix(strings.TrimSpace(head), marker) {
			return true
		}
	}
	return false
}
