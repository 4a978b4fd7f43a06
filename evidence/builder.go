package evidence

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/question"
	"github.com/poiesic/docfind/retrieve"
	"github.com/poiesic/docfind/semantic"
	"github.com/poiesic/docfind/text"
)

const (
	maxLinksPerOption  = 5
	candidatesPerQuery = 8

	explicitRelevance = 0.7
	explicitCoverage  = 0.5
	impliedRelevance  = 0.4
)

// typeWeights scale a link's contribution to the option confidence.
// Contradicting evidence contributes nothing.
var typeWeights = map[core.EvidenceType]float64{
	core.EvidenceExplicit:     1.0,
	core.EvidenceImplied:      0.6,
	core.EvidenceAbsent:       0.3,
	core.EvidenceContradicted: 0.0,
}

// Finder is the retrieval dependency of the builder.
type Finder interface {
	FindBoostedCandidates(query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error)
}

// Builder constructs per-option evidence chains for multiple-choice
// grounding: which passages support, imply, or contradict each option.
type Builder struct {
	finder Finder
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an evidence chain builder.
func NewBuilder(finder Finder, opts ...Option) (*Builder, error) {
	if finder == nil {
		return nil, ErrFinderRequired
	}

	b := &Builder{
		finder: finder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Result is the full evidence picture for one question: a chain per
// option and the letter of the best-supported option.
type Result struct {
	Chains     []core.EvidenceChain
	BestOption string
}

// Build constructs evidence chains for every option and picks the one
// with the highest weighted confidence as the recommended answer.
func (b *Builder) Build(q string, options []question.QuizOption) (*Result, error) {
	result := &Result{}
	bestConfidence := -1.0

	for _, option := range options {
		chain, err := b.buildChain(q, option)
		if err != nil {
			return nil, err
		}
		result.Chains = append(result.Chains, *chain)

		if chain.Confidence > bestConfidence {
			bestConfidence = chain.Confidence
			result.BestOption = chain.Option
		}
	}

	return result, nil
}

// buildChain gathers and classifies evidence for a single option.
func (b *Builder) buildChain(q string, option question.QuizOption) (*core.EvidenceChain, error) {
	combined := strings.TrimSpace(q + " " + option.Text)

	fromCombined, err := b.finder.FindBoostedCandidates(combined, candidatesPerQuery, nil)
	if err != nil {
		return nil, err
	}
	fromOption, err := b.finder.FindBoostedCandidates(option.Text, candidatesPerQuery, nil)
	if err != nil {
		return nil, err
	}

	candidates := retrieve.MergeByChunk(fromCombined, fromOption)
	optionTerms := contentTerms(option.Text)
	queryVector := semantic.BuildSparseVector(combined)

	links := make([]core.EvidenceLink, 0, len(candidates))
	for _, candidate := range candidates {
		link := classifyLink(candidate, combined, queryVector, optionTerms)
		links = append(links, link)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Relevance > links[j].Relevance
	})
	if len(links) > maxLinksPerOption {
		links = links[:maxLinksPerOption]
	}

	chain := &core.EvidenceChain{
		Option:     option.Letter,
		OptionText: option.Text,
		Links:      links,
		Overall:    overallType(links),
		Confidence: weightedConfidence(links),
	}

	b.logger.Debug("built evidence chain",
		"option", chain.Option, "overall", chain.Overall,
		"links", len(chain.Links), "confidence", chain.Confidence)

	return chain, nil
}

// classifyLink scores one candidate passage against the combined query
// and assigns its evidence type.
func classifyLink(candidate core.SearchCandidate, combined string, queryVector *semantic.SparseVector, optionTerms []string) core.EvidenceLink {
	scored := retrieve.ScoreCandidate(candidate.Text, combined)
	similarity := semantic.Cosine(queryVector, semantic.BuildSparseVector(candidate.Text))
	relevance := 0.5*(scored.Score/100) + 0.5*similarity

	matched := matchedTerms(candidate.Text, optionTerms)
	coverage := 0.0
	if len(optionTerms) > 0 {
		coverage = float64(len(matched)) / float64(len(optionTerms))
	}

	return core.EvidenceLink{
		Text:         candidate.Text,
		Page:         candidate.Page,
		ChunkID:      candidate.ChunkID,
		Relevance:    relevance,
		Type:         classify(isContradicted(candidate.Text, optionTerms), relevance, coverage),
		MatchedTerms: matched,
	}
}

// classify maps a link's signals to its evidence type. The explicit
// boundary sits on relevance and coverage inclusively; above the
// implied floor, coverage no longer matters.
func classify(contradicted bool, relevance, coverage float64) core.EvidenceType {
	switch {
	case contradicted:
		return core.EvidenceContradicted
	case relevance >= explicitRelevance && coverage >= explicitCoverage:
		return core.EvidenceExplicit
	case relevance >= impliedRelevance:
		return core.EvidenceImplied
	default:
		return core.EvidenceAbsent
	}
}

// overallType aggregates link types. Contradicted wins whenever it is
// at least as frequent as explicit support; when in doubt the chain is
// flagged as contradicted, a deliberate conservative bias for answer
// grounding.
func overallType(links []core.EvidenceLink) core.EvidenceType {
	counts := make(map[core.EvidenceType]int)
	for _, link := range links {
		counts[link.Type]++
	}

	switch {
	case counts[core.EvidenceContradicted] > 0 && counts[core.EvidenceContradicted] >= counts[core.EvidenceExplicit]:
		return core.EvidenceContradicted
	case counts[core.EvidenceExplicit] > 0:
		return core.EvidenceExplicit
	case counts[core.EvidenceImplied] > 0:
		return core.EvidenceImplied
	default:
		return core.EvidenceAbsent
	}
}

// weightedConfidence blends link relevances with a position decay of
// 1/(i+1) over the relevance-ordered links and the per-type weights.
func weightedConfidence(links []core.EvidenceLink) float64 {
	if len(links) == 0 {
		return 0
	}

	weightedSum := 0.0
	positionSum := 0.0
	for i, link := range links {
		position := 1 / float64(i+1)
		weightedSum += link.Relevance * typeWeights[link.Type] * position
		positionSum += position
	}

	return weightedSum / positionSum
}

// contentTerms extracts the option tokens longer than 2 characters
// used for term-coverage checks.
func contentTerms(optionText string) []string {
	var terms []string
	for _, token := range text.Tokenize(optionText) {
		if len(token) > 2 {
			terms = append(terms, token)
		}
	}
	return terms
}

func matchedTerms(passage string, terms []string) []string {
	lowered := strings.ToLower(passage)
	var matched []string
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
