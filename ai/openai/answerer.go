package openai

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/faqtory/ai"
)

const (
	answerMaxTokens   = 1024
	answerTemperature = 0.7
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client llms.Model
	caller *caller
	logger *slog.Logger
}

func newAnswerer(client llms.Model, c *caller) *Answerer {
	return &Answerer{
		client: client,
		caller: c,
		logger: slog.Default().With("component", "openai-answerer"),
	}
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newAnswerer(client, newCaller(config)), nil
}

// Answer sends each chunk as its own user message followed by the question.
func (a *Answerer) Answer(ctx context.Context, question string, chunks []string) (string, error) {
	content := make([]llms.MessageContent, 0, len(chunks)+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, answerSystemPrompt))
	for _, chunk := range chunks {
		content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, chunk))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, buildAnswerPrompt(question)))

	answer, err := a.caller.generate(ctx, a.client, content,
		llms.WithTemperature(answerTemperature),
		llms.WithMaxTokens(answerMaxTokens))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}
	a.logger.Debug("generated answer", "chunks", len(chunks), "length", len(answer))
	return answer, nil
}
