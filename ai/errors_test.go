package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized status", errors.New("API returned unexpected status code: 401 Unauthorized"), ErrAuthentication},
		{"bad api key", errors.New("invalid api key provided"), ErrAuthentication},
		{"rate limit status", errors.New("status code: 429 Too Many Requests"), ErrRateLimited},
		{"timeout message", errors.New("request timed out after 30s"), ErrTimeout},
		{"deadline exceeded", fmt.Errorf("embed: %w", context.DeadlineExceeded), ErrTimeout},
		{"connection refused", errors.New("dial tcp 127.0.0.1:11434: connection refused"), ErrConnection},
		{"server error", errors.New("status code: 503 Service Unavailable"), ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)
			assert.ErrorIs(t, classified, tt.want)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, Classify(nil))

	// Already classified errors keep their sentinel.
	wrapped := fmt.Errorf("embed: %w", ErrRateLimited)
	assert.Equal(t, wrapped, Classify(wrapped))

	// Unrecognized errors come back unchanged.
	plain := errors.New("malformed response body")
	assert.Equal(t, plain, Classify(plain))
	assert.False(t, IsRetryable(plain))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimited))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.True(t, IsRetryable(ErrConnection))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", ErrServer)))
	assert.False(t, IsRetryable(ErrAuthentication))
	assert.False(t, IsRetryable(nil))
}
