package services

import "strings"

// NormalizeContent folds case and collapses whitespace so that two facts
// differing only in spacing or capitalization count as the same text.
func NormalizeContent(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// TopicExcerpts reduces fact contents to short topic hints for the
// generation prompt: the first ten words of the first sentence of each,
// deduplicated, capped at limit.
func TopicExcerpts(contents []string, limit int) []string {
	seen := make(map[string]struct{}, len(contents))
	var out []string
	for _, content := range contents {
		excerpt := firstWords(firstSentence(content), 10)
		if excerpt == "" {
			continue
		}
		if _, ok := seen[excerpt]; ok {
			continue
		}
		seen[excerpt] = struct{}{}
		out = append(out, excerpt)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func firstSentence(s string) string {
	if idx := strings.IndexAny(s, ".!?"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
