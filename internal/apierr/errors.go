// Package apierr provides the shared error taxonomy and retry
// infrastructure for the OpenAI-compatible API clients in this module.
// Provider errors are classified into these sentinels at the adapter
// boundary; callers check them with errors.Is and decide retry behavior
// with IsRetryable.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrContextTooLong indicates the input exceeds the model's context budget.
	// Callers that can window their input should do so instead of retrying.
	ErrContextTooLong = errors.New("input exceeds model context budget")
)

// Classify maps an API error to the sentinel taxonomy.
// Unrecognized errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion also surfaces as 429 but requires user action,
			// so it must not be retried.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			if isContextLengthMessage(apiErr.Message) {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrContextTooLong)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	// Some SDK paths return untyped errors; fall back to message inspection
	// for the one case the Summarizer must distinguish.
	if isContextLengthMessage(err.Error()) {
		return fmt.Errorf("API rejected input: %w", ErrContextTooLong)
	}

	return err
}

// isContextLengthMessage reports whether an API error message indicates
// the input exceeded the model's context window.
func isContextLengthMessage(msg string) bool {
	return strings.Contains(msg, "context_length") ||
		strings.Contains(msg, "maximum context length")
}

// IsRetryable reports whether an error is transient and worth retrying.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout) {
		return true
	}

	// Server errors (5xx) are retryable.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	// Everything else (auth, quota, bad input, cancellation) is fatal.
	return false
}
