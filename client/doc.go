// Package client builds a delve.Gateway for one configured provider.
//
// The Client wraps a provider implementation and adds:
//
//   - Provider selection: Anthropic, OpenAI, Google Gemini, or a local Ollama
//   - Optional retries: exponential backoff for transient errors, off by default
//   - Observability: Prometheus metrics and debug logging per call
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: delve.ProviderAnthropic,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	text, err := c.Invoke(ctx, "Summarize the history of the transistor.")
//
// # Ollama
//
// Ollama needs no API key and defaults to its local endpoint:
//
//	c, err := client.New(ctx, client.Config{Provider: delve.ProviderOllama, Model: "qwen3"})
//
// # Retry Configuration
//
// Transient errors (rate limits, overload, 5xx, network timeouts) can be
// retried. A server Retry-After longer than the backoff is honoured:
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: delve.ProviderOpenAI,
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	    Retry:    client.DefaultRetryConfig(3),
//	})
package client
