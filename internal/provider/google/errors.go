package google

import (
	"errors"

	"google.golang.org/genai"

	"github.com/spetersoncode/delve"
)

// wrapError wraps a Google GenAI error with delve error categorization.
// genai.APIError doesn't expose headers, so Retry-After is not available.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network or context error)
		return err
	}

	return delve.NewStatusError(err.Error(), apiErr.Code, 0, err)
}
