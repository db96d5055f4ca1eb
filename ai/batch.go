package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/corpora/pool"
)

// DefaultBatchWidth is how many completions run concurrently in a batch.
const DefaultBatchWidth = 5

// CompleteBatch fans prompts out to the completer with bounded concurrency
// and returns completions in prompt order. A failed prompt yields an empty
// string rather than failing the batch; callers that need the failures can
// inspect the returned error slice, indexed like the prompts.
func CompleteBatch(ctx context.Context, completer Completer, prompts []string, maxTokens int, timeout time.Duration) ([]string, []error) {
	results, errs := pool.FanOut(ctx, prompts, DefaultBatchWidth, func(ctx context.Context, prompt string) (string, error) {
		return completer.Complete(ctx, prompt, maxTokens, timeout)
	})
	for i, err := range errs {
		if err != nil {
			slog.Debug("batch completion failed", "index", i, "error", err)
			results[i] = ""
		}
	}
	return results, errs
}
