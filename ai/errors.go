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


package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthentication indicates rejected credentials. Never retried.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrConnection indicates the service could not be reached.
	ErrConnection = errors.New("connection failed")

	// ErrServer indicates a server-side failure.
	ErrServer = errors.New("server error")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")
)

// IsRetryable reports whether the error is a transient failure worth
// retrying. Authentication errors and unclassified errors are not retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrServer)
}

// Classify maps a raw client error onto the package sentinels by inspecting
// its message and cause chain. Errors that already carry a sentinel pass
// through unchanged; errors that match no known class are returned as-is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAuthentication) || IsRetryable(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "unauthorized", "api key", "authentication"):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case containsAny(msg, "429", "rate limit", "too many requests"):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case containsAny(msg, "connection refused", "connection reset", "no such host", "broken pipe", "eof"):
		return fmt.Errorf("%w: %w", ErrConnection, err)
	case containsAny(msg, "500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable", "overloaded"):
		return fmt.Errorf("%w: %w", ErrServer, err)
	}
	return err
}

func containsAny(msg string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
