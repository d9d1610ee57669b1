package openai

import (
	"fmt"
	"strings"
)

const questionPromptTemplate = `Given some text from a user, come up with the top %d questions that this text answers.
Questions must be succinct. Do not include people or user names in the questions.
Respond with a line-separated list of the questions and nothing else.`

const topicPromptTemplate = `Classify the user's question into exactly one of the topics below.

Output ONLY valid JSON of the form {"topic_id": "<id>"}. Do not include any preamble, explanation,
or text outside the object.

Rules:
- topic_id must be one of the ids listed below, copied exactly.
- If no topic fits, use "other".

Topics (id: name):
%s`

const answerSystemPrompt = `You are helping find, extract and synthesize information from longer texts. ` +
	`You are succinct and always change the extracted content to make it unique.`

const answerPromptTemplate = `By considering above input, answer the question without copying any text or infringing copyright: %s`

func buildQuestionPrompt(count int) string {
	return fmt.Sprintf(questionPromptTemplate, count)
}

// buildTopicPrompt lists the catalog one topic per line.
func buildTopicPrompt(names, ids []string) string {
	var b strings.Builder
	for i, id := range ids {
		name := id
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		fmt.Fprintf(&b, "- %s: %s\n", id, name)
	}
	return fmt.Sprintf(topicPromptTemplate, b.String())
}

func buildAnswerPrompt(question string) string {
	return fmt.Sprintf(answerPromptTemplate, question)
}
