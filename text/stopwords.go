package text

// Stop words filtered out during tokenization. Standalone numeric
// tokens are never filtered, so codes and page references survive.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "when": true, "at": true, "by": true,
	"for": true, "with": true, "about": true, "against": true, "between": true,
	"into": true, "through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "to": true, "from": true, "up": true,
	"down": true, "in": true, "out": true, "on": true, "off": true, "over": true,
	"under": true, "again": true, "further": true, "once": true, "here": true,
	"there": true, "all": true, "any": true, "both": true, "each": true,
	"few": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "nor": true, "not": true, "only": true,
	"own": true, "same": true, "so": true, "than": true, "too": true,
	"very": true, "can": true, "will": true, "just": true, "should": true,
	"now": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "having": true, "do": true, "does": true, "did": true,
	"doing": true, "would": true, "could": true, "ought": true, "of": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "as": true, "what": true, "which": true, "who": true,
	"whom": true, "how": true, "why": true, "where": true,
}

// IsStopWord reports whether a lowercased token is on the stopword list.
func IsStopWord(token string) bool {
	return stopWords[token]
}
