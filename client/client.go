package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/internal/metrics"
	"github.com/spetersoncode/delve/internal/provider/anthropic"
	"github.com/spetersoncode/delve/internal/provider/google"
	"github.com/spetersoncode/delve/internal/provider/openai"
	"github.com/spetersoncode/delve/internal/retry"
)

// Config holds configuration for creating a gateway client.
type Config struct {
	// Provider selects the backend.
	Provider delve.Provider

	// APIKey authenticates against the provider. Ignored for Ollama.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL points the provider at a different endpoint.
	// For Ollama an empty value selects the local default.
	BaseURL string

	// Retry configures retries of transient gateway errors.
	// The zero value makes a single attempt.
	Retry RetryConfig

	// Logger receives debug records for every call. Defaults to slog.Default().
	Logger *slog.Logger
}

// ErrMissingAPIKey is returned when a provider that needs an API key is
// configured without one.
type ErrMissingAPIKey struct {
	Provider delve.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// Client is a delve.Gateway backed by one provider, with retries, metrics
// and logging around every call. It is safe for concurrent use.
type Client struct {
	provider delve.Provider
	model    string
	gateway  delve.Gateway
	retry    retry.Config
	log      *slog.Logger
}

var _ delve.Gateway = (*Client)(nil)

// New creates a client for the configured provider.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Provider.NeedsAPIKey() && cfg.APIKey == "" {
		return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
	}

	var (
		gateway delve.Gateway
		model   string
	)
	switch cfg.Provider {
	case delve.ProviderAnthropic:
		opts := []anthropic.ClientOption{anthropic.WithModel(cfg.Model), anthropic.WithMaxRetries(0)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		gateway, model = anthropic.New(cfg.APIKey, opts...), orDefault(cfg.Model, anthropic.DefaultModel)
	case delve.ProviderOpenAI:
		gateway = openai.New(cfg.APIKey,
			openai.WithModel(cfg.Model), openai.WithBaseURL(cfg.BaseURL), openai.WithMaxRetries(0))
		model = orDefault(cfg.Model, openai.DefaultModel)
	case delve.ProviderOllama:
		gateway = openai.NewOllama(cfg.BaseURL, openai.WithModel(cfg.Model), openai.WithMaxRetries(0))
		model = orDefault(cfg.Model, openai.DefaultOllamaModel)
	case delve.ProviderGoogle:
		g, err := google.New(ctx, cfg.APIKey, google.WithModel(cfg.Model), google.WithBaseURL(cfg.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		gateway, model = g, orDefault(cfg.Model, google.DefaultModel)
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}

	return wrap(cfg.Provider, model, gateway, cfg.Retry, cfg.Logger), nil
}

func wrap(provider delve.Provider, model string, gateway delve.Gateway, rc retry.Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		provider: provider,
		model:    model,
		gateway:  gateway,
		retry:    rc,
		log:      log.With("provider", provider.String()),
	}
}

// Provider returns the backend the client talks to.
func (c *Client) Provider() delve.Provider { return c.provider }

// Model returns the model used when a call does not name one.
func (c *Client) Model() string { return c.model }

// Invoke sends the prompt to the provider. Transient failures are retried
// according to the client's retry configuration.
func (c *Client) Invoke(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
	model := c.model
	if m := delve.ApplyOptions(opts...).Model; m != "" {
		model = m
	}
	log := c.log.With("model", model)

	start := time.Now()
	log.Debug("gateway request", "prompt_chars", len(prompt))

	out, err := retry.Do(ctx, c.retry, func(attempt int, delay time.Duration, err error) {
		log.Warn("gateway request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}, func() (string, error) {
		return c.gateway.Invoke(ctx, prompt, opts...)
	})

	elapsed := time.Since(start)
	metrics.RecordGatewayRequest(c.provider.String(), elapsed, err)
	if err != nil {
		log.Debug("gateway request error", "duration", elapsed, "error", err)
		return "", err
	}
	log.Debug("gateway response", "duration", elapsed, "response_chars", len(out))
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
