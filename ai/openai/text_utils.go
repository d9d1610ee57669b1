package openai

import (
	"strings"
	"unicode/utf8"
)

// minExtractableLength is the shortest text, in characters, worth asking questions about.
const minExtractableLength = 50

// minQuestionLength filters out list markers and fragments; kept lines are longer than this.
const minQuestionLength = 7

// parseQuestions turns a line-separated completion into questions.
// Leading numbering and bullets are stripped and short lines are dropped.
func parseQuestions(completion string, limit int) []string {
	questions := make([]string, 0, limit)
	for _, line := range strings.Split(completion, "\n") {
		q := strings.TrimSpace(strings.TrimLeft(line, "0123456789.- "))
		if utf8.RuneCountInString(q) <= minQuestionLength {
			continue
		}
		questions = append(questions, q)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	return questions
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
