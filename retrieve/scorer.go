package retrieve

import (
	"math"
	"regexp"
	"strings"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/text"
)

const (
	densityWeight  = 0.6
	coverageWeight = 0.4
	scoreScale     = 60
	heuristicCap   = 99
	phraseCutoff   = 85
)

// sectionBoosts scale the heuristic score by section type. Diagrams
// are demoted because they usually need visual context the text does
// not capture.
var sectionBoosts = map[core.SectionType]float64{
	core.SectionExplanation: 1.3,
	core.SectionProcedure:   1.25,
	core.SectionGlossary:    1.2,
	core.SectionExample:     1.15,
	core.SectionWarning:     1.1,
	core.SectionTable:       1.0,
	core.SectionFormula:     1.0,
	core.SectionUnknown:     1.0,
	core.SectionDiagram:     0.9,
}

var quotedPhrasePattern = regexp.MustCompile(`"([^"]+)"`)

// CandidateScore is the outcome of fine-grained scoring of one passage
// against a query, independent of the index.
type CandidateScore struct {
	Score   float64 // 0-100
	Match   core.MatchType
	Excerpt string
}

// ScoreCandidate scores a passage's relevance to a query.
//
// In priority order: exact substring containment of the whole query
// scores 100; a query with double-quoted phrases scores 0 outright if
// any quoted phrase is missing from the passage; otherwise a sliding
// 3-sentence window is scored on weighted token density (60%) and
// distinct-token coverage (40%), scaled to at most 99, then multiplied
// by the section-type boost and capped at 100.
//
// Coverage carries 40% of the blend so a passage repeating one keyword
// cannot outrank a passage touching every distinct query concept.
func ScoreCandidate(passage, query string) CandidateScore {
	loweredPassage := strings.ToLower(passage)
	loweredQuery := strings.ToLower(strings.TrimSpace(query))

	// 1. Exact containment of the full query.
	if loweredQuery != "" {
		if idx := strings.Index(loweredPassage, loweredQuery); idx >= 0 {
			return CandidateScore{
				Score:   100,
				Match:   core.MatchExact,
				Excerpt: exactExcerpt(passage, idx, len(loweredQuery)),
			}
		}
	}

	// 2. Quoted phrases are a hard gate: every one must appear.
	for _, match := range quotedPhrasePattern.FindAllStringSubmatch(query, -1) {
		if !strings.Contains(loweredPassage, strings.ToLower(match[1])) {
			return CandidateScore{Score: 0, Match: core.MatchFuzzy}
		}
	}

	// 3. Sliding sentence-window density/coverage scoring.
	tokens := text.Tokenize(query)
	if len(tokens) == 0 {
		return CandidateScore{Score: 0, Match: core.MatchFuzzy}
	}

	sentences := text.SplitSentences(passage)
	if len(sentences) == 0 {
		return CandidateScore{Score: 0, Match: core.MatchFuzzy}
	}

	important := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if len(token) > 4 || strings.ContainsAny(token, "0123456789") {
			important[token] = true
		}
	}

	bestScore := 0.0
	bestCenter := 0
	for center := range sentences {
		window := strings.ToLower(windowText(sentences, center, 1))

		weightedHits := 0.0
		distinct := 0
		for _, token := range tokens {
			if !strings.Contains(window, token) {
				continue
			}
			distinct++
			if important[token] {
				weightedHits += 2
			} else {
				weightedHits++
			}
		}

		denominator := float64(len(tokens))
		if denominator > 10 {
			denominator = 10
		}
		density := weightedHits / denominator
		coverage := float64(distinct) / float64(len(tokens))
		combined := density*densityWeight + coverage*coverageWeight

		if combined > bestScore {
			bestScore = combined
			bestCenter = center
		}
	}

	score := math.Round(bestScore * scoreScale)
	if score > heuristicCap {
		score = heuristicCap
	}

	score *= sectionBoost(passage)
	if score > 100 {
		score = 100
	}

	match := core.MatchFuzzy
	if score > phraseCutoff {
		match = core.MatchPhrase
	}

	return CandidateScore{
		Score:   score,
		Match:   match,
		Excerpt: strings.TrimSpace(windowText(sentences, bestCenter, 2)),
	}
}

func sectionBoost(passage string) float64 {
	if boost, ok := sectionBoosts[text.DetectSectionType(passage)]; ok {
		return boost
	}
	return 1.0
}

// windowText joins the sentences within radius of center.
func windowText(sentences []string, center, radius int) string {
	start := center - radius
	if start < 0 {
		start = 0
	}
	end := center + radius + 1
	if end > len(sentences) {
		end = len(sentences)
	}
	return strings.Join(sentences[start:end], " ")
}

// exactExcerpt windows around an exact query match: 100 characters of
// leading context and 150 plus the query length trailing.
func exactExcerpt(passage string, matchIndex, queryLength int) string {
	start := matchIndex - 100
	if start < 0 {
		start = 0
	}
	end := matchIndex + queryLength + 150
	if end > len(passage) {
		end = len(passage)
	}
	return collapseSpace(passage[start:end])
}
