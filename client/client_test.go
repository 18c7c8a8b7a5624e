package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/internal/metrics"
	"github.com/spetersoncode/delve/internal/provider/anthropic"
	"github.com/spetersoncode/delve/internal/provider/openai"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	for _, p := range []delve.Provider{delve.ProviderAnthropic, delve.ProviderOpenAI, delve.ProviderGoogle} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := New(context.Background(), Config{Provider: p})

			var missing *ErrMissingAPIKey
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, p, missing.Provider)
			assert.Contains(t, err.Error(), p.String())
		})
	}
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "acme", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestNew_DefaultModels(t *testing.T) {
	tests := []struct {
		provider delve.Provider
		want     string
	}{
		{delve.ProviderAnthropic, anthropic.DefaultModel},
		{delve.ProviderOpenAI, openai.DefaultModel},
		{delve.ProviderOllama, openai.DefaultOllamaModel},
	}
	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			c, err := New(context.Background(), Config{Provider: tt.provider, APIKey: "k", Logger: quiet})
			require.NoError(t, err)
			assert.Equal(t, tt.provider, c.Provider())
			assert.Equal(t, tt.want, c.Model())
		})
	}

	c, err := New(context.Background(), Config{Provider: delve.ProviderOllama, Model: "qwen3"})
	require.NoError(t, err)
	assert.Equal(t, "qwen3", c.Model())
}

func TestNew_OllamaEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{Provider: delve.ProviderOllama, BaseURL: srv.URL + "/v1/", Logger: quiet})
	require.NoError(t, err)

	out, err := c.Invoke(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestInvoke_RecordsMetrics(t *testing.T) {
	provider := delve.Provider("stub-metrics")
	c := wrap(provider, "m", delve.GatewayFunc(func(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
		if prompt == "fail" {
			return "", errors.New("boom")
		}
		return "ok", nil
	}), DisabledRetryConfig(), quiet)

	success := metrics.GatewayRequestsTotal.WithLabelValues(provider.String(), "success")
	failure := metrics.GatewayRequestsTotal.WithLabelValues(provider.String(), "error")
	beforeOK, beforeErr := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	_, err := c.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	_, err = c.Invoke(context.Background(), "fail")
	require.Error(t, err)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(failure))
}

func TestInvoke_RetriesTransientErrors(t *testing.T) {
	calls := 0
	c := wrap("stub", "m", delve.GatewayFunc(func(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
		calls++
		if calls < 3 {
			return "", delve.NewTransientError("overloaded", 529, nil)
		}
		return "done", nil
	}), fastRetry(3), quiet)

	out, err := c.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 3, calls)
}

func TestInvoke_DoesNotRetryByDefault(t *testing.T) {
	calls := 0
	c := wrap("stub", "m", delve.GatewayFunc(func(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
		calls++
		return "", delve.NewTransientError("rate limited", 429, nil)
	}), RetryConfig{}, quiet)

	_, err := c.Invoke(context.Background(), "hi")
	assert.True(t, delve.IsTransient(err))
	assert.Equal(t, 1, calls)
}

func TestInvoke_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	c := wrap("stub", "m", delve.GatewayFunc(func(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
		calls++
		return "", delve.NewPermanentError("bad key", 401, nil)
	}), fastRetry(5), quiet)

	_, err := c.Invoke(context.Background(), "hi")
	assert.True(t, delve.IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestInvoke_ForwardsOptions(t *testing.T) {
	var got *delve.Options
	c := wrap("stub", "m", delve.GatewayFunc(func(ctx context.Context, prompt string, opts ...delve.Option) (string, error) {
		got = delve.ApplyOptions(opts...)
		return "ok", nil
	}), RetryConfig{}, nil)

	_, err := c.Invoke(context.Background(), "hi", delve.WithModel("other"), delve.WithMaxTokens(10))
	require.NoError(t, err)
	assert.Equal(t, "other", got.Model)
	assert.Equal(t, 10, got.MaxTokens)
}

func TestIsTransientError(t *testing.T) {
	assert.True(t, IsTransientError(delve.NewTransientError("x", 503, nil)))
	assert.False(t, IsTransientError(delve.NewUserInputError("x", 400, nil)))
	assert.Equal(t, 1, DisabledRetryConfig().MaxAttempts)
	assert.Equal(t, 4, DefaultRetryConfig(4).MaxAttempts)
}
