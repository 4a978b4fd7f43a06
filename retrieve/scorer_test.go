package retrieve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/docfind/core"
)

func TestScoreCandidate_ExactContainment(t *testing.T) {
	result := ScoreCandidate("The capital of France is Paris.", "capital of France")

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, core.MatchExact, result.Match)
	assert.Contains(t, result.Excerpt, "capital of France")
}

func TestScoreCandidate_QuotedPhraseGate(t *testing.T) {
	result := ScoreCandidate("the cat sat on the mat", `"exact phrase"`)
	assert.Equal(t, 0.0, result.Score, "a missing quoted phrase disqualifies the candidate outright")
}

func TestScoreCandidate_QuotedPhrasePresentProceeds(t *testing.T) {
	result := ScoreCandidate("Bleed the brake line before refilling.", `"brake line" bleeding procedure`)
	assert.Greater(t, result.Score, 0.0)
}

func TestScoreCandidate_CoverageBeatsRepetition(t *testing.T) {
	query := "pump seal bearing"
	repeated := ScoreCandidate("Pump pump pump pump pump.", query)
	covering := ScoreCandidate("The pump, seal, and bearing assembly.", query)

	assert.Greater(t, covering.Score, repeated.Score,
		"touching every distinct query concept must outrank repeating one")
}

func TestScoreCandidate_SectionBoost(t *testing.T) {
	// Same token hits; the explanation passage gets the 1.3 boost.
	query := "leaks seal"
	explained := ScoreCandidate("The seal leaks because pressure rises.", query)
	plain := ScoreCandidate("The seal leaks near the flange.", query)

	assert.Greater(t, explained.Score, plain.Score)
	assert.LessOrEqual(t, explained.Score, 100.0)
	assert.Equal(t, core.MatchPhrase, explained.Match, "scores above 85 report a phrase match")
	assert.Equal(t, core.MatchFuzzy, plain.Match)
}

func TestScoreCandidate_EmptyQuery(t *testing.T) {
	result := ScoreCandidate("Some passage.", "the a an")
	assert.Equal(t, 0.0, result.Score)
}

func TestScoreCandidate_NoTokenOverlap(t *testing.T) {
	result := ScoreCandidate("Electrical wiring diagrams.", "coolant pressure")
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, core.MatchFuzzy, result.Match)
}
