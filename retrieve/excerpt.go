package retrieve

import "strings"

const (
	excerptBefore   = 60
	excerptAfter    = 140
	excerptFallback = 150
)

// Excerpt produces a human-readable snippet around the first query
// token found in the chunk text (case-insensitive): a window of 60
// characters before and 140 after the match, whitespace collapsed,
// with ellipses marking truncation. When no token occurs, the first
// 150 characters are used.
func Excerpt(chunkText string, queryTokens []string) string {
	lowered := strings.ToLower(chunkText)

	position := -1
	for _, token := range queryTokens {
		if idx := strings.Index(lowered, token); idx >= 0 && (position < 0 || idx < position) {
			position = idx
		}
	}

	if position < 0 {
		if len(chunkText) <= excerptFallback {
			return collapseSpace(chunkText)
		}
		return collapseSpace(chunkText[:excerptFallback]) + "..."
	}

	start := position - excerptBefore
	if start < 0 {
		start = 0
	}
	end := position + excerptAfter
	if end > len(chunkText) {
		end = len(chunkText)
	}

	excerpt := collapseSpace(chunkText[start:end])
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(chunkText) {
		excerpt += "..."
	}
	return excerpt
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
