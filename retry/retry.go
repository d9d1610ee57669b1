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


// Package retry runs operations with bounded, randomized exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultMinDelay    = 20 * time.Second
	DefaultMaxDelay    = 60 * time.Second

	multiplier          = 2.0
	randomizationFactor = 0.5
)

// Policy bounds a retry loop.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// MinDelay is the initial wait before the second attempt.
	MinDelay time.Duration

	// MaxDelay caps any single wait.
	MaxDelay time.Duration
}

// DefaultPolicy returns 3 attempts waiting between 20s and 60s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		MinDelay:    DefaultMinDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Validate checks that the policy can drive a retry loop.
func (p Policy) Validate() error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if p.MinDelay < 0 || p.MaxDelay < 0 || (p.MaxDelay > 0 && p.MaxDelay < p.MinDelay) {
		return ErrInvalidDelay
	}
	return nil
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	maxDelay := p.MaxDelay
	if maxDelay == 0 {
		maxDelay = p.MinDelay
	}
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.MinDelay),
		backoff.WithMaxInterval(maxDelay),
		backoff.WithMultiplier(multiplier),
		backoff.WithRandomizationFactor(randomizationFactor),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

// Do runs operation until it succeeds, the attempts are exhausted or ctx is done.
// It returns the error from the last attempt, or the context error.
// Errors wrapped with Permanent are returned immediately without retrying.
func Do(ctx context.Context, policy Policy, operation func() error) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	attempt := 0
	op := func() error {
		attempt++
		return operation()
	}
	notify := func(err error, wait time.Duration) {
		slog.Debug("operation failed, will retry",
			"attempt", attempt,
			"maxAttempts", policy.MaxAttempts,
			"wait", wait,
			"error", err)
	}

	err := backoff.RetryNotify(op, policy.backOff(ctx), notify)
	if err == nil && attempt > 1 {
		slog.Debug("operation succeeded after retry", "attempt", attempt)
	}
	return err
}

// DoWithData is Do for operations that return a value.
func DoWithData[T any](ctx context.Context, policy Policy, operation func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, policy, func() error {
		var err error
		result, err = operation()
		return err
	})
	return result, err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
