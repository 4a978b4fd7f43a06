package question

import (
	"regexp"
	"strings"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/text"
)

const maxKeyTerms = 12

// intentRule pairs an intent with the patterns that signal it. Rules
// are tested in order and the first match wins.
type intentRule struct {
	intent   core.Intent
	patterns []*regexp.Regexp
}

var intentRules = []intentRule{
	{core.IntentDefinition, compileAll(
		`(?i)\bwhat (?:is|are|does)\b`,
		`(?i)\bdefin(?:e|ition)\b`,
		`(?i)\bmean(?:ing)? of\b`,
		`(?i)\bwhat do(?:es)? .+ mean\b`,
	)},
	{core.IntentProcedure, compileAll(
		`(?i)\bhow (?:do|to|can|should)\b`,
		`(?i)\bsteps?\b`,
		`(?i)\bprocedure\b`,
		`(?i)\bprocess (?:of|for)\b`,
	)},
	{core.IntentDiagnosis, compileAll(
		`(?i)\bwhy\b`,
		`(?i)\bcause[sd]?\b`,
		`(?i)\bwhat(?:'s| is) wrong\b`,
		`(?i)\btroubleshoot\b`,
		`(?i)\bsymptom\b`,
	)},
	{core.IntentComparison, compileAll(
		`(?i)\bdifference\b`,
		`(?i)\bcompared? (?:to|with)\b`,
		`(?i)\bversus\b`,
		`(?i)\bvs\.?\b`,
		`(?i)\bwhich is (?:better|bigger|larger|smaller|faster)\b`,
	)},
	{core.IntentCalculation, compileAll(
		`(?i)\bcalculate\b`,
		`(?i)\bhow (?:much|many)\b`,
		`(?i)\bcomputed?\b`,
		`(?i)\bsum of\b`,
		`(?i)\btotal\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

var (
	numericLiteralPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	negationPattern       = regexp.MustCompile(`(?i)\b(no|not|never|without|except|unless)\b`)
	constraintPattern     = regexp.MustCompile(`(?i)\b(during|while|when|with|at|after|before|under|assuming|given)\b`)
	quotedPattern         = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
)

const (
	constraintBefore = 40
	constraintAfter  = 60
)

// Analyze classifies a natural-language question's intent and extracts
// structured query-expansion signals. It needs no index access and is
// safe for concurrent use.
func Analyze(q string) core.QuestionAnalysis {
	return core.QuestionAnalysis{
		Intent:       classifyIntent(q),
		KeyTerms:     keyTerms(q),
		Negations:    negations(q),
		Constraints:  constraints(q),
		FocusPhrases: focusPhrases(q),
	}
}

// classifyIntent tests the question against the ordered intent rules
// and takes the first family with any match.
func classifyIntent(q string) core.Intent {
	for _, rule := range intentRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(q) {
				return rule.intent
			}
		}
	}
	return core.IntentOther
}

// keyTerms extracts deduplicated tokens longer than 2 characters,
// capped at 12, then appends any standalone numeric literals. Numbers
// are never dropped, even past the cap.
func keyTerms(q string) []string {
	seen := make(map[string]bool)
	var terms []string

	for _, token := range text.Tokenize(q) {
		if len(token) <= 2 || seen[token] {
			continue
		}
		seen[token] = true
		if len(terms) < maxKeyTerms {
			terms = append(terms, token)
		}
	}

	for _, literal := range numericLiteralPattern.FindAllString(q, -1) {
		if !seen[literal] {
			seen[literal] = true
			terms = append(terms, literal)
		}
	}

	return terms
}

func negations(q string) []string {
	seen := make(map[string]bool)
	var found []string
	for _, match := range negationPattern.FindAllString(q, -1) {
		lowered := strings.ToLower(match)
		if !seen[lowered] {
			seen[lowered] = true
			found = append(found, lowered)
		}
	}
	return found
}

// constraints extracts a context window around every constraint word:
// these are snippets, not single words, because the qualifier usually
// matters only together with what it qualifies.
func constraints(q string) []string {
	var found []string
	for _, loc := range constraintPattern.FindAllStringIndex(q, -1) {
		start := loc[0] - constraintBefore
		if start < 0 {
			start = 0
		}
		end := loc[1] + constraintAfter
		if end > len(q) {
			end = len(q)
		}
		found = append(found, strings.TrimSpace(q[start:end]))
	}
	return found
}

func focusPhrases(q string) []string {
	var phrases []string
	for _, match := range quotedPattern.FindAllStringSubmatch(q, -1) {
		phrase := match[1]
		if phrase == "" {
			phrase = match[2]
		}
		phrase = strings.TrimSpace(phrase)
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}
