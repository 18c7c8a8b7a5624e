package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// Answerer answers a research question. *research.Researcher satisfies it.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	log     *slog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger for tool calls. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.log = l
	}
}

// NewServer creates an MCP server exposing the research tool backed by a.
//
// Example:
//
//	r, _ := research.New(gateway)
//	mcpServer := mcp.NewServer(r,
//	    mcp.WithName("delve"),
//	    mcp.WithVersion("1.0.0"),
//	)
//
//	server.ServeStdio(mcpServer)
func NewServer(a Answerer, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "delve",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
	)
	s.AddTool(ResearchTool(), researchHandler(a, cfg.log))
	return s
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(a Answerer, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(a, opts...))
}
