package retrieval

import "strings"

// Stop words to filter out when checking for keyword matches
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "how": true, "what": true, "i": true, "my": true,
	"can": true, "does": true,
}

// keywords splits text into lowercased words, trimming punctuation and
// dropping stop words.
func keywords(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}
	return filtered
}

// containsAllKeywords reports whether every keyword of query appears in text.
// A query with no keywords never matches.
func containsAllKeywords(text, query string) bool {
	want := keywords(query)
	if len(want) == 0 {
		return false
	}

	have := make(map[string]bool)
	for _, word := range keywords(text) {
		have[word] = true
	}
	for _, word := range want {
		if !have[word] {
			return false
		}
	}
	return true
}
