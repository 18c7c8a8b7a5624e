package openai

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/internal/provider"
)

// wrapError wraps an OpenAI SDK error with delve error categorization.
// It extracts status codes and Retry-After headers.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network or context error)
		return err
	}

	return delve.NewStatusError(err.Error(), apiErr.StatusCode, provider.RetryAfter(apiErr.Response), err)
}
