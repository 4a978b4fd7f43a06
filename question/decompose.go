package question

import (
	"regexp"
	"strings"
)

// QuizOption is one answer option of a detected multiple-choice question.
type QuizOption struct {
	Letter string
	Text   string
}

// Quiz is a multiple-choice question split into its stem and options.
type Quiz struct {
	Stem    string
	Options []QuizOption
}

var optionPattern = regexp.MustCompile(`(?m)^\s*([A-Ea-e])[.)]\s+(.+?)\s*$`)

// DetectQuiz recognizes a multiple-choice question: a stem followed by
// at least two lettered option lines ("A) ...", "b. ..."). Returns nil
// when the text is not quiz-shaped.
func DetectQuiz(q string) *Quiz {
	matches := optionPattern.FindAllStringSubmatchIndex(q, -1)
	if len(matches) < 2 {
		return nil
	}

	stem := strings.TrimSpace(q[:matches[0][0]])
	options := make([]QuizOption, 0, len(matches))
	for _, loc := range matches {
		options = append(options, QuizOption{
			Letter: strings.ToUpper(q[loc[2]:loc[3]]),
			Text:   strings.TrimSpace(q[loc[4]:loc[5]]),
		})
	}

	return &Quiz{Stem: stem, Options: options}
}

var clauseSplitter = regexp.MustCompile(`(?i)\s*(?:;|,\s+and\s+|\s+and\s+(?:what|how|why|when|where|which)\b)\s*`)

// Decompose splits a complex question into sub-questions. For a quiz
// question the result is the stem plus one stem+option query per
// option; for a multi-clause question, its clauses; otherwise the
// question itself as the single entry.
func Decompose(q string) []string {
	if quiz := DetectQuiz(q); quiz != nil {
		subs := make([]string, 0, len(quiz.Options)+1)
		if quiz.Stem != "" {
			subs = append(subs, quiz.Stem)
		}
		for _, option := range quiz.Options {
			subs = append(subs, strings.TrimSpace(quiz.Stem+" "+option.Text))
		}
		return subs
	}

	clauses := clauseSplitter.Split(q, -1)
	var subs []string
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		// Fragments too short to retrieve on are folded into the base question.
		if len(clause) >= 12 {
			subs = append(subs, clause)
		}
	}

	if len(subs) <= 1 {
		return []string{strings.TrimSpace(q)}
	}
	return subs
}

// IsComplex reports whether a question decomposes into more than one
// sub-question.
func IsComplex(q string) bool {
	return DetectQuiz(q) != nil || len(Decompose(q)) > 1
}
