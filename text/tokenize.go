package text

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// Tokenize lowercases text, replaces all non-word characters with
// spaces, splits on whitespace, and drops stopwords and single-character
// alphabetic tokens. Standalone numeric tokens are retained so codes,
// model numbers, and page references survive filtering.
//
// The function is pure: the same input always yields the same tokens.
func Tokenize(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if numericPattern.MatchString(field) {
			tokens = append(tokens, field)
			continue
		}
		if len(field) < 2 || stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// IsNumeric reports whether a token consists solely of digits.
func IsNumeric(token string) bool {
	return numericPattern.MatchString(token)
}
