package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/delve"
)

type answerFunc func(ctx context.Context, query string) (string, error)

func (f answerFunc) Answer(ctx context.Context, query string) (string, error) { return f(ctx, query) }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func startClient(t *testing.T, a Answerer) *client.Client {
	t.Helper()

	server := NewServer(a, WithName("test-server"), WithVersion("1.0.0"), WithLogger(quiet))
	c, err := client.NewInProcessClient(server)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func callResearch(t *testing.T, c *client.Client, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      ToolName,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

func TestResearchTool(t *testing.T) {
	tool := ResearchTool()
	assert.Equal(t, "research", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.Contains(t, tool.InputSchema.Required, "query")
}

func TestServerIntegration(t *testing.T) {
	t.Run("lists the research tool", func(t *testing.T) {
		c := startClient(t, answerFunc(func(ctx context.Context, query string) (string, error) {
			return "", nil
		}))

		result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
		require.NoError(t, err)
		require.Len(t, result.Tools, 1)
		assert.Equal(t, ToolName, result.Tools[0].Name)
	})

	t.Run("returns the answer", func(t *testing.T) {
		var got string
		c := startClient(t, answerFunc(func(ctx context.Context, query string) (string, error) {
			got = query
			return "Quasars are active galactic nuclei.", nil
		}))

		result := callResearch(t, c, map[string]any{"query": "  What is a quasar? "})
		assert.False(t, result.IsError)
		assert.Equal(t, "Quasars are active galactic nuclei.", resultText(t, result))
		assert.Equal(t, "What is a quasar?", got)
	})

	t.Run("run failures are tool errors", func(t *testing.T) {
		c := startClient(t, answerFunc(func(ctx context.Context, query string) (string, error) {
			return "", &delve.GatewayError{Step: "research", Err: errors.New("connection refused")}
		}))

		result := callResearch(t, c, map[string]any{"query": "anything"})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "connection refused")
	})

	t.Run("missing or blank query", func(t *testing.T) {
		calls := 0
		c := startClient(t, answerFunc(func(ctx context.Context, query string) (string, error) {
			calls++
			return "unused", nil
		}))

		assert.True(t, callResearch(t, c, map[string]any{}).IsError)
		assert.True(t, callResearch(t, c, map[string]any{"query": "   "}).IsError)
		assert.Zero(t, calls)
	})
}
