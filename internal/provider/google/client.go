// Package google implements the delve gateway on the Gemini API.
package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/spetersoncode/delve"
)

// DefaultModel is used when neither the client nor the call names a model.
const DefaultModel = "gemini-2.5-flash"

// BlockedError is returned when Gemini refuses the prompt.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: prompt blocked: %s", e.Reason)
}

// Client wraps the Google GenAI SDK to implement delve.Gateway.
type Client struct {
	client *genai.Client
	model  string
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		client: client,
		model:  cfg.model,
	}, nil
}

// Invoke sends the prompt as a single user turn and returns the text parts of
// the first candidate.
func (c *Client) Invoke(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
	options := delve.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", wrapError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String(), nil
}
