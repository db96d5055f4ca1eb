package openai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stallModel blocks until the per-call context expires for the first
// `stalls` calls, then answers normally.
type stallModel struct {
	stalls int
	calls  int
}

func (m *stallModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.calls <= m.stalls {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "  the answer  "}},
	}, nil
}

func (m *stallModel) Call(ctx context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", nil
}

func newTestCompleter(model llms.Model, maxAttempts int) *Completer {
	return &Completer{
		client:      model,
		maxAttempts: maxAttempts,
		retryDelay:  time.Millisecond,
		logger:      slog.Default().With("component", "openai-completer"),
	}
}

func TestCompleteRetriesAfterAttemptTimeout(t *testing.T) {
	model := &stallModel{stalls: 1}
	completer := newTestCompleter(model, 3)

	result, err := completer.Complete(context.Background(), "prompt", 64, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "the answer", result)
	assert.Equal(t, 2, model.calls, "timed-out attempt should be followed by a retry")
}

func TestCompleteExhaustsAttemptsOnPersistentTimeout(t *testing.T) {
	model := &stallModel{stalls: 10}
	completer := newTestCompleter(model, 3)

	_, err := completer.Complete(context.Background(), "prompt", 64, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 3, model.calls)
}

func TestCompleteHonorsCallerCancellation(t *testing.T) {
	model := &stallModel{stalls: 10}
	completer := newTestCompleter(model, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := completer.Complete(ctx, "prompt", 64, 50*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 0, model.calls, "cancelled caller context should stop before any attempt")
}

func TestCompleteNoTimeoutLeavesContextUnbounded(t *testing.T) {
	var sawDeadline bool
	model := &deadlineWatchModel{sawDeadline: &sawDeadline}
	completer := newTestCompleter(model, 1)

	result, err := completer.Complete(context.Background(), "prompt", 64, 0)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.False(t, sawDeadline, "zero timeout should not impose a deadline")
}

type deadlineWatchModel struct {
	sawDeadline *bool
}

func (m *deadlineWatchModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	_, ok := ctx.Deadline()
	*m.sawDeadline = ok
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ok"}},
	}, nil
}

func (m *deadlineWatchModel) Call(ctx context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", nil
}
