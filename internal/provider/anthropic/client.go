// Package anthropic implements the delve gateway on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/internal/provider"
)

// DefaultModel is used when neither the client nor the call names a model.
const DefaultModel = "claude-sonnet-4-5"

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement delve.Gateway.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model      string
	reqOptions []option.RequestOption
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
		c.reqOptions = append(c.reqOptions, option.WithBaseURL(url))
	}
}

// WithMaxRetries sets how often the SDK retries failed requests.
func WithMaxRetries(n int) ClientOption {
	return func(c *clientConfig) {
		c.reqOptions = append(c.reqOptions, option.WithMaxRetries(n))
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.reqOptions...)
	client := anthropic.NewClient(reqOpts...)
	return &Client{
		client: &client,
		model:  cfg.model,
	}
}

// Invoke sends the prompt as a single user message and returns the
// concatenated text blocks of the reply.
func (c *Client) Invoke(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
	options := delve.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// wrapError categorizes an Anthropic SDK error by status code.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		// Network or context error.
		return err
	}
	return delve.NewStatusError(err.Error(), apiErr.StatusCode, provider.RetryAfter(apiErr.Response), err)
}
