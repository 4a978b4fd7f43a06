package text

import (
	"regexp"
	"sort"
	"strings"
)

var phraseBoundary = regexp.MustCompile(`[.,;:!?()\[\]{}"'\n\r—–]+`)

// ExtractKeywords pulls the top maxKeywords representative phrases out
// of a block of text using RAKE-style scoring: candidate phrases are
// the runs of text between punctuation, each content word gets a
// degree/frequency score from phrase co-occurrence, and a phrase
// scores the sum of its words' scores.
//
// Phrases are deduplicated by lowercase text, first occurrence wins.
func ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		return nil
	}

	rawPhrases := phraseBoundary.Split(text, -1)

	type phrase struct {
		text  string
		words []string
	}

	var phrases []phrase
	for _, raw := range rawPhrases {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		words := contentWords(trimmed)
		if len(words) == 0 {
			continue
		}
		phrases = append(phrases, phrase{text: trimmed, words: words})
	}

	// Word frequency and degree across all phrases. Degree counts the
	// other content words sharing a phrase, plus one for the word itself.
	frequency := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, word := range p.words {
			frequency[word]++
			degree[word] += len(p.words)
		}
	}

	type scored struct {
		text  string
		score float64
	}

	seen := make(map[string]bool)
	var candidates []scored
	for _, p := range phrases {
		key := strings.ToLower(p.text)
		if seen[key] {
			continue
		}
		seen[key] = true

		score := 0.0
		for _, word := range p.words {
			score += float64(degree[word]) / float64(frequency[word])
		}
		candidates = append(candidates, scored{text: p.text, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > maxKeywords {
		candidates = candidates[:maxKeywords]
	}

	keywords := make([]string, len(candidates))
	for i, c := range candidates {
		keywords[i] = c.text
	}
	return keywords
}

// contentWords filters a phrase down to the words that carry meaning:
// not stopwords, longer than 2 characters, not pure numbers.
func contentWords(phrase string) []string {
	fields := strings.Fields(strings.ToLower(phrase))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		cleaned := strings.Trim(field, ".,!?;:'\"-()[]{}")
		if len(cleaned) <= 2 || stopWords[cleaned] || IsNumeric(cleaned) {
			continue
		}
		words = append(words, cleaned)
	}
	return words
}
