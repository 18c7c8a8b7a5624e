package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/delve"
)

func TestClient_Invoke(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [
				{"type": "text", "text": "<json>{\"summary\": "},
				{"type": "text", "text": "\"done\"}</json>"}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 3, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL), WithMaxRetries(0), WithModel("claude-test"))
	out, err := c.Invoke(context.Background(), "hello", delve.WithMaxTokens(100), delve.WithTemperature(0.2))
	require.NoError(t, err)

	assert.Equal(t, `<json>{"summary": "done"}</json>`, out)
	assert.Equal(t, "claude-test", body["model"])
	assert.Equal(t, float64(100), body["max_tokens"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-9)

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestClient_InvokeModelOverride(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m","type":"message","role":"assistant","model":"x","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL), WithMaxRetries(0))
	out, err := c.Invoke(context.Background(), "hi", delve.WithModel("claude-other"))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "claude-other", model)
}

func TestClient_InvokeErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			retryAfter: "7",
			check: func(t *testing.T, err error) {
				assert.True(t, delve.IsTransient(err))
				var e *delve.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 7*time.Second, e.RetryAfter())
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.True(t, delve.IsPermanent(err))
			},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				assert.True(t, delve.IsUserInput(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"nope"}}`)
			}))
			defer srv.Close()

			c := New("k", WithBaseURL(srv.URL), WithMaxRetries(0))
			_, err := c.Invoke(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tt.status, delve.StatusCodeOf(err))
			tt.check(t, err)
		})
	}
}
