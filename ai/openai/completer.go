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
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/corpora/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client      llms.Model
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		maxAttempts: config.MaxAttempts,
		retryDelay:  ai.DefaultRetryBaseDelay,
		logger:      slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends a prompt and returns the trimmed completion text.
// Transient failures are retried with exponential backoff; authentication
// failures are returned immediately.
func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	var completion string
	err := ai.RetryWithBackoff(ctx, func() error {
		// The timeout bounds each attempt; the caller's ctx bounds the
		// whole retry loop. A timed-out attempt must leave ctx alive so
		// the retry can actually run.
		attemptCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		response, err := c.client.GenerateContent(attemptCtx, content, llms.WithMaxTokens(maxTokens))
		if err != nil {
			return ai.Classify(err)
		}
		if len(response.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		completion = strings.TrimSpace(response.Choices[0].Content)
		return nil
	}, c.maxAttempts, c.retryDelay)
	if err != nil {
		c.logger.Error("completion failed", "err", err)
		return "", err
	}
	return completion, nil
}
