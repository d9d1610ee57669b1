package openai

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/retry"
)

// caller wraps every remote call in the client-side rate limit and the retry policy.
// One caller is shared by all services of a Provider so the limit is global.
type caller struct {
	limiter *rate.Limiter
	policy  retry.Policy
}

func newCaller(config *ai.Config) *caller {
	c := &caller{policy: config.Retry}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return c
}

// do waits for a token before each attempt.
// A canceled wait is not retried.
func (c *caller) do(ctx context.Context, op func() error) error {
	return retry.Do(ctx, c.policy, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}
		}
		return op()
	})
}

// generate runs a chat completion and returns the first choice's text.
// An empty choice list yields an empty string.
func (c *caller) generate(ctx context.Context, model llms.Model, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	var text string
	err := c.do(ctx, func() error {
		response, err := model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return err
		}
		text = ""
		if len(response.Choices) > 0 {
			text = response.Choices[0].Content
		}
		return nil
	})
	return text, err
}
