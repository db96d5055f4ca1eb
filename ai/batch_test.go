package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter echoes prompts and fails those marked with "fail".
type scriptedCompleter struct{}

func (scriptedCompleter) Complete(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	if strings.HasPrefix(prompt, "fail") {
		return "", ErrServer
	}
	return "echo: " + prompt, nil
}

func TestCompleteBatch_PreservesOrder(t *testing.T) {
	prompts := []string{"one", "two", "three", "four", "five", "six", "seven"}

	results, errs := CompleteBatch(context.Background(), scriptedCompleter{}, prompts, 100, time.Minute)
	require.Len(t, results, len(prompts))
	for i, prompt := range prompts {
		assert.NoError(t, errs[i])
		assert.Equal(t, "echo: "+prompt, results[i])
	}
}

func TestCompleteBatch_FailuresYieldEmptyStrings(t *testing.T) {
	prompts := []string{"one", "fail two", "three"}

	results, errs := CompleteBatch(context.Background(), scriptedCompleter{}, prompts, 100, time.Minute)
	require.Len(t, results, 3)

	assert.Equal(t, "echo: one", results[0])
	assert.Empty(t, results[1])
	assert.Equal(t, "echo: three", results[2])

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrServer)
	assert.NoError(t, errs[2])
}

func TestCompleteBatch_Empty(t *testing.T) {
	results, errs := CompleteBatch(context.Background(), scriptedCompleter{}, nil, 100, time.Minute)
	assert.Empty(t, results)
	assert.Empty(t, errs)
}
