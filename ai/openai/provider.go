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
	"log/slog"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/faqtory/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// All services share one rate limiter and retry policy.
type Provider struct {
	config     *ai.Config
	embedder   *Embedder
	extractor  *QuestionExtractor
	classifier *TopicClassifier
	answerer   *Answerer
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := newCaller(config)

	embedder, err := newEmbedder(config, c)
	if err != nil {
		return nil, err
	}

	chat, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		extractor:  newQuestionExtractor(chat, c, config.QuestionCount),
		classifier: newTopicClassifier(chat, c),
		answerer:   newAnswerer(chat, c),
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// newChatClient creates the langchaingo client used for all generation calls.
func newChatClient(config *ai.Config) (*openai.LLM, error) {
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.ChatModel),
	)
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// QuestionExtractor returns the question extraction service.
func (p *Provider) QuestionExtractor() ai.QuestionExtractor {
	return p.extractor
}

// TopicClassifier returns the topic classification service.
func (p *Provider) TopicClassifier() ai.TopicClassifier {
	return p.classifier
}

// Answerer returns the answering service.
func (p *Provider) Answerer() ai.Answerer {
	return p.answerer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
