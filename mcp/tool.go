// Package mcp exposes delve research as an MCP (Model Context Protocol) tool.
//
// MCP clients such as Claude Desktop launch the server as a subprocess and
// call its single tool, research, with a question:
//
//	r, err := research.New(gateway)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mcp.ServeStdio(r); err != nil {
//	    log.Fatal(err)
//	}
//
// Failed runs are reported as tool error results, not protocol errors.
package mcp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolName is the name of the research tool.
const ToolName = "research"

// ResearchTool returns the research tool definition.
func ResearchTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Research a question over several rounds of query generation, "+
			"summarisation and reflection, then return a synthesised answer."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to research"),
		),
	)
}

func researchHandler(a Answerer, log *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		query = strings.TrimSpace(query)
		if query == "" {
			return mcp.NewToolResultError("query must not be empty"), nil
		}

		start := time.Now()
		answer, err := a.Answer(ctx, query)
		if err != nil {
			log.Warn("research tool failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		log.Info("research tool answered", "duration_ms", time.Since(start).Milliseconds())
		return mcp.NewToolResultText(answer), nil
	}
}
