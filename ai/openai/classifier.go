package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/core"
)

// maxParseAttempts bounds how often a malformed classification is regenerated.
const maxParseAttempts = 3

// TopicClassifier implements ai.TopicClassifier using OpenAI-compatible chat APIs.
type TopicClassifier struct {
	client llms.Model
	caller *caller
	logger *slog.Logger
}

// classification is the JSON object the model is asked to return.
type classification struct {
	TopicID string `json:"topic_id"`
}

func newTopicClassifier(client llms.Model, c *caller) *TopicClassifier {
	return &TopicClassifier{
		client: client,
		caller: c,
		logger: slog.Default().With("component", "openai-classifier"),
	}
}

// NewTopicClassifier creates a new topic classifier using the provided configuration.
//
// Returns ai.TopicClassifier interface to enforce abstraction.
func NewTopicClassifier(config *ai.Config) (ai.TopicClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newTopicClassifier(client, newCaller(config)), nil
}

// ClassifyTopic picks the topic of text from the catalog.
// An empty catalog or an id outside the catalog yields core.OtherTopicID.
func (c *TopicClassifier) ClassifyTopic(ctx context.Context, text string, names, ids []string) (string, error) {
	if len(ids) == 0 {
		return core.OtherTopicID, nil
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildTopicPrompt(names, ids)),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	var result classification
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := c.caller.generate(ctx, c.client, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		if lastErr = parseClassification(response, &result); lastErr == nil {
			break
		}
		c.logger.Warn("error parsing classifier response",
			"attempt", attempt+1,
			"response", response,
			"err", lastErr)
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrUnparseableResponse, lastErr)
	}

	topicID := strings.TrimSpace(result.TopicID)
	if !slices.Contains(ids, topicID) {
		if topicID != core.OtherTopicID {
			c.logger.Debug("classifier returned unknown topic", "topic", topicID)
		}
		return core.OtherTopicID, nil
	}
	return topicID, nil
}

// parseClassification tries the raw response first and a repaired one second.
func parseClassification(response string, out *classification) error {
	raw := stripCodeFence(response)
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(repairJSON(raw)), out)
}
