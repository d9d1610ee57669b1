// Package mock provides test double implementations of AI service interfaces.
//
// The mocks let tests run without external AI services and with controlled,
// deterministic behavior. All mocks are safe for concurrent use.
//
// # Usage in Tests
//
//	provider := mock.NewMockProvider()
//
//	// Pin the vector of a text so dedup outcomes are predictable
//	provider.GetMockEmbedder().WithVector("How do I log in?", []float32{1, 0})
//
//	// Custom behavior injection
//	provider.GetMockClassifier().ClassifyTopicFunc = func(ctx context.Context, text string, names, ids []string) (string, error) {
//	    return "billing", nil
//	}
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockQuestionExtractor: Returns count numbered questions for texts of 50+ characters
//   - MockTopicClassifier: Matches topic names in the text, else "other"
//   - MockAnswerer: Echoes the question
package mock
