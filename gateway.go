package delve

import "context"

// Gateway sends a prompt to a language model and returns its text response.
// Implementations must be safe for concurrent use by independent runs.
type Gateway interface {
	// Invoke sends a single prompt and blocks until the full response is available.
	Invoke(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// GatewayFunc adapts an ordinary function to the Gateway interface.
type GatewayFunc func(ctx context.Context, prompt string, opts ...Option) (string, error)

// Invoke calls f(ctx, prompt, opts...).
func (f GatewayFunc) Invoke(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f(ctx, prompt, opts...)
}
