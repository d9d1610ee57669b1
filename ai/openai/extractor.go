// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/faqtory/ai"
)

// QuestionExtractor implements ai.QuestionExtractor using OpenAI-compatible chat APIs.
type QuestionExtractor struct {
	client       llms.Model
	caller       *caller
	defaultCount int
	logger       *slog.Logger
}

func newQuestionExtractor(client llms.Model, c *caller, defaultCount int) *QuestionExtractor {
	return &QuestionExtractor{
		client:       client,
		caller:       c,
		defaultCount: defaultCount,
		logger:       slog.Default().With("component", "openai-questions"),
	}
}

// NewQuestionExtractor creates a new question extractor using the provided configuration.
//
// Returns ai.QuestionExtractor interface to enforce abstraction.
func NewQuestionExtractor(config *ai.Config) (ai.QuestionExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newQuestionExtractor(client, newCaller(config), config.QuestionCount), nil
}

// ExtractQuestions asks the model for up to count questions answered by text.
// Texts shorter than 50 characters yield no questions and no model call.
// A count below 1 uses the configured default.
func (e *QuestionExtractor) ExtractQuestions(ctx context.Context, text string, count int) ([]string, error) {
	if utf8.RuneCountInString(text) < minExtractableLength {
		return []string{}, nil
	}
	if count < 1 {
		count = e.defaultCount
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildQuestionPrompt(count)),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	completion, err := e.caller.generate(ctx, e.client, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Error("failed to generate questions", "err", err)
		return nil, err
	}

	questions := parseQuestions(completion, count)
	e.logger.Debug("extracted questions", "requested", count, "kept", len(questions))
	return questions, nil
}
