package inference_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"edifika/internal/inference"
)

func TestNewRateLimitError(t *testing.T) {
	cause := errors.New("status 429")

	err := inference.NewRateLimitError("openai", cause, 30)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
	assert.Equal(t, "openai", err.Provider)
	assert.ErrorIs(t, err, cause)

	// Missing Retry-After defaults to 60s.
	err = inference.NewRateLimitError("openai", cause, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
}

func TestRateLimitError_As(t *testing.T) {
	var target *inference.RateLimitError
	wrapped := inference.NewRateLimitError("openai", errors.New("boom"), 10)

	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 10*time.Second, target.RetryAfter)
}

func TestCreditsError_As(t *testing.T) {
	cause := errors.New("status 402")
	err := &inference.CreditsError{Provider: "openai", Err: cause}

	var target *inference.CreditsError
	assert.True(t, errors.As(err, &target))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "payment required")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, inference.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, inference.ParseRetryAfterHeader("not-a-number"))
	assert.Equal(t, 120, inference.ParseRetryAfterHeader("120"))
}
