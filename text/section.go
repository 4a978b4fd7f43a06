package text

import (
	"regexp"

	"github.com/poiesic/docfind/core"
)

// sectionRule pairs a section type with the patterns that signal it.
// Rules are evaluated in declaration order; on a tie in match counts
// the earlier rule wins.
type sectionRule struct {
	section  core.SectionType
	patterns []*regexp.Regexp
}

var sectionRules = []sectionRule{
	{core.SectionExplanation, compileAll(
		`(?i)\bbecause\b`,
		`(?i)\btherefore\b`,
		`(?i)\bthis means\b`,
		`(?i)\bin other words\b`,
		`(?i)\bthe reason\b`,
		`(?i)\bas a result\b`,
	)},
	{core.SectionGlossary, compileAll(
		`(?i)\bis defined as\b`,
		`(?i)\brefers to\b`,
		`(?i)\bis called\b`,
		`(?i)\bmeans that\b`,
		`(?i)\bterm(?:inology)?\b`,
		`(?i)\bglossary\b`,
	)},
	{core.SectionTable, compileAll(
		`(?i)\btable\s*\d`,
		`(?i)\bcolumn\b`,
		`(?i)\brow\b`,
		`\|.*\|`,
		`\t.*\t`,
	)},
	{core.SectionDiagram, compileAll(
		`(?i)\bfigure\s*\d`,
		`(?i)\bdiagram\b`,
		`(?i)\billustration\b`,
		`(?i)\bas shown in\b`,
		`(?i)\bsee fig\b`,
	)},
	{core.SectionProcedure, compileAll(
		`(?i)\bstep\s*\d`,
		`(?i)\bfirst,?\s`,
		`(?i)\bnext,?\s`,
		`(?i)\bfinally\b`,
		`(?i)\bprocedure\b`,
		`(?i)\bfollow(?:ing)? these\b`,
		`(?im)^\s*\d+[.)]\s`,
	)},
	{core.SectionFormula, compileAll(
		`[=≈≤≥±]`,
		`(?i)\bequation\b`,
		`(?i)\bformula\b`,
		`(?i)\bcalculated? (?:as|by|using)\b`,
		`[∑∫√π]`,
	)},
	{core.SectionWarning, compileAll(
		`(?i)\bwarning\b`,
		`(?i)\bcaution\b`,
		`(?i)\bdo not\b`,
		`(?i)\bnever\b`,
		`(?i)\bdanger\b`,
		`(?i)\bimportant:\s`,
		`(?i)\bmust not\b`,
	)},
	{core.SectionExample, compileAll(
		`(?i)\bfor example\b`,
		`(?i)\be\.g\.`,
		`(?i)\bexample\s*\d`,
		`(?i)\bsuch as\b`,
		`(?i)\bconsider the\b`,
		`(?i)\bsuppose\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// DetectSectionType classifies a span of text into one of the section
// categories by counting pattern hits per category and returning the
// category with the highest count. Ties go to the category declared
// first. Returns SectionUnknown when nothing matches.
func DetectSectionType(text string) core.SectionType {
	best := core.SectionUnknown
	bestScore := 0

	for _, rule := range sectionRules {
		score := 0
		for _, pattern := range rule.patterns {
			score += len(pattern.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			bestScore = score
			best = rule.section
		}
	}

	return best
}

// DetectContentType tags a short text span as table, list, or plain
// text. Image content cannot be recognized from text alone and is
// assigned by the upstream page source when it applies.
func DetectContentType(text string) core.ContentType {
	if tablePattern.MatchString(text) {
		return core.ContentTable
	}
	if listPattern.MatchString(text) {
		return core.ContentList
	}
	return core.ContentText
}

var (
	tablePattern = regexp.MustCompile(`\|.*\||\t.*\t`)
	listPattern  = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+\S`)
)
