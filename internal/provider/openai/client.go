// Package openai implements the delve gateway on the OpenAI Chat Completions
// API. The same client serves Ollama through its OpenAI-compatible endpoint.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spetersoncode/delve"
)

const (
	// DefaultModel is used for OpenAI when no model is named.
	DefaultModel = "gpt-5-mini"

	// DefaultOllamaModel is used for Ollama when no model is named.
	DefaultOllamaModel = "llama3.2"

	// DefaultOllamaBaseURL is the local Ollama OpenAI-compatible endpoint.
	DefaultOllamaBaseURL = "http://localhost:11434/v1/"
)

// ErrNoChoices is returned when the API answers without any completion.
var ErrNoChoices = errors.New("openai: response contained no choices")

// Client wraps the OpenAI SDK to implement delve.Gateway.
type Client struct {
	client *openai.Client
	model  string
}

// ClientOption configures the OpenAI client.
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
		if url != "" {
			c.reqOptions = append(c.reqOptions, option.WithBaseURL(url))
		}
	}
}

// WithMaxRetries sets how often the SDK retries failed requests.
func WithMaxRetries(n int) ClientOption {
	return func(c *clientConfig) {
		c.reqOptions = append(c.reqOptions, option.WithMaxRetries(n))
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	return newClient(DefaultModel, apiKey, nil, opts)
}

// NewOllama creates a client for a local Ollama server. An empty baseURL
// selects DefaultOllamaBaseURL.
func NewOllama(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	// Ollama ignores the key but the SDK sends one.
	return newClient(DefaultOllamaModel, "ollama", []ClientOption{WithBaseURL(baseURL)}, opts)
}

func newClient(model, apiKey string, base, opts []ClientOption) *Client {
	cfg := &clientConfig{model: model}
	for _, opt := range base {
		opt(cfg)
	}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.reqOptions...)
	client := openai.NewClient(reqOpts...)
	return &Client{
		client: &client,
		model:  cfg.model,
	}
}

// Invoke sends the prompt as a single user message and returns the content
// of the first choice.
func (c *Client) Invoke(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
	options := delve.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
