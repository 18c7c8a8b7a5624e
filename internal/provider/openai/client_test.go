package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/delve"
)

func completionServer(t *testing.T, response string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		if seen != nil {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(data, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okCompletion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1,
	"model": "gpt-test",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "<json>{\"query\": [\"a\"]}</json>"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 1, "completion_tokens": 2, "total_tokens": 3}
}`

func TestClient_Invoke(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, okCompletion, &body)

	c := New("test-key", WithBaseURL(srv.URL+"/v1/"), WithMaxRetries(0), WithModel("gpt-test"))
	out, err := c.Invoke(context.Background(), "hello", delve.WithMaxTokens(50))
	require.NoError(t, err)

	assert.Equal(t, `<json>{"query": ["a"]}</json>`, out)
	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, float64(50), body["max_tokens"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "hello", msg["content"])
}

func TestClient_InvokeNoChoices(t *testing.T) {
	srv := completionServer(t, `{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil)

	c := New("k", WithBaseURL(srv.URL+"/v1/"), WithMaxRetries(0))
	_, err := c.Invoke(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestNewOllama(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, okCompletion, &body)

	c := NewOllama(srv.URL+"/v1/", WithMaxRetries(0))
	_, err := c.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, body["model"])

	c = NewOllama(srv.URL+"/v1/", WithMaxRetries(0), WithModel("qwen3"))
	_, err = c.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "qwen3", body["model"])
}

func TestClient_InvokeErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusNotFound, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
		}))

		c := New("k", WithBaseURL(srv.URL+"/v1/"), WithMaxRetries(0))
		_, err := c.Invoke(context.Background(), "hello")
		srv.Close()

		require.Error(t, err)
		assert.Equal(t, status, delve.StatusCodeOf(err))
		assert.Equal(t, delve.CategorizeStatusCode(status) == delve.ErrorTransient, delve.IsTransient(err))
	}
}

func TestWrapError_NonAPIError(t *testing.T) {
	err := wrapError(context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, wrapError(nil))
}
