package delve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("returns empty options when no options provided", func(t *testing.T) {
		opts := ApplyOptions()
		assert.NotNil(t, opts)
		assert.Empty(t, opts.Model)
		assert.Zero(t, opts.MaxTokens)
		assert.Nil(t, opts.Temperature)
	})

	t.Run("applies multiple options", func(t *testing.T) {
		opts := ApplyOptions(
			WithModel("llama3.1"),
			WithMaxTokens(1000),
			WithTemperature(0.2),
		)

		assert.Equal(t, "llama3.1", opts.Model)
		assert.Equal(t, 1000, opts.MaxTokens)
		require.NotNil(t, opts.Temperature)
		assert.Equal(t, 0.2, *opts.Temperature)
	})

	t.Run("later options win", func(t *testing.T) {
		opts := ApplyOptions(WithModel("a"), WithModel("b"))
		assert.Equal(t, "b", opts.Model)
	})
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"anthropic", "openai", "google", "ollama"} {
		p, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}

	_, err := ParseProvider("vertex")
	assert.Error(t, err)

	assert.False(t, ProviderOllama.NeedsAPIKey())
	assert.True(t, ProviderAnthropic.NeedsAPIKey())
}

func TestGatewayFunc(t *testing.T) {
	var gotModel string
	gw := GatewayFunc(func(ctx context.Context, prompt string, opts ...Option) (string, error) {
		gotModel = ApplyOptions(opts...).Model
		return "echo: " + prompt, nil
	})

	out, err := gw.Invoke(context.Background(), "hi", WithModel("m"))
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
	assert.Equal(t, "m", gotModel)
}
