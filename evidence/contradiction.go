package evidence

import (
	"regexp"
	"strings"
)

// negatedTermPattern captures the term immediately following a
// negation or prevention word.
var negatedTermPattern = regexp.MustCompile(`(?i)\b(?:not|no|never|without|avoiding|preventing)\s+([\p{L}\d]+)`)

// isContradicted reports whether the passage negates one of the option
// terms: a negation-pattern match whose negated term overlaps an
// option term as a substring in either direction.
func isContradicted(passage string, optionTerms []string) bool {
	if len(optionTerms) == 0 {
		return false
	}

	for _, match := range negatedTermPattern.FindAllStringSubmatch(passage, -1) {
		negated := strings.ToLower(match[1])
		if len(negated) <= 2 {
			continue
		}
		for _, term := range optionTerms {
			if strings.Contains(negated, term) || strings.Contains(term, negated) {
				return true
			}
		}
	}
	return false
}
