// Command mcp serves delve research as an MCP tool over stdio.
//
// Logs go to stderr; stdout carries the protocol. Configuration matches
// cmd/serve (DELVE_* environment variables or flags).
//
// Configuration for Claude Desktop (~/Library/Application Support/Claude/claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "delve": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp", "--provider", "anthropic"],
//	            "cwd": "/path/to/delve"
//	        }
//	    }
//	}
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/spetersoncode/delve/internal/config"
	"github.com/spetersoncode/delve/internal/logger"
	"github.com/spetersoncode/delve/mcp"
)

// version is reported to MCP clients.
var version = "dev"

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("mcp", os.Args[1:])
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	researcher, err := cfg.NewResearcher(context.Background(), log)
	if err != nil {
		return err
	}

	log.Info("delve MCP server ready", "provider", cfg.Provider, "model", cfg.Model)
	return mcp.ServeStdio(researcher,
		mcp.WithName("delve"),
		mcp.WithVersion(version),
		mcp.WithLogger(log),
	)
}
