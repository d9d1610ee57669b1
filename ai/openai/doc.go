// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// The services talk to OpenAI or an OpenAI-compatible server (Ollama, LocalAI,
// vLLM) through langchaingo. Every request first waits on a shared token-bucket
// limiter and is retried with randomized exponential backoff.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithChatModel("qwen2.5:3b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	questions, err := provider.QuestionExtractor().ExtractQuestions(ctx, text, 3)
//	topic, err := provider.TopicClassifier().ClassifyTopic(ctx, questions[0], names, ids)
package openai
