// Command serve runs the delve HTTP server.
//
// Configuration is via environment variables (a .env file is loaded if
// present) or the equivalent flags:
//
//	DELVE_PORT            - Server port (default: 8080)
//	DELVE_PROVIDER        - anthropic, openai, google, or ollama (default: ollama)
//	DELVE_MODEL           - Model override (optional, uses provider default)
//	DELVE_BASE_URL        - Provider endpoint override (optional)
//	DELVE_MAX_QUERIES     - Queries generated per question (default: 2)
//	DELVE_MAX_ROUNDS      - Maximum research rounds (default: 3)
//	DELVE_PROMPTS_FILE    - YAML prompt templates (optional)
//	DELVE_TIMEOUT         - Per-question timeout (default: none)
//	DELVE_GATEWAY_RETRIES - Retries of transient provider errors (default: 0)
//	DELVE_MAX_TOKENS      - Maximum tokens per model response (optional)
//	DELVE_TEMPERATURE     - Sampling temperature, 0.0 to 2.0 (optional)
//	DELVE_LOG_LEVEL       - debug, info, warn, or error (default: info)
//	ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY
//
// Usage:
//
//	DELVE_PROVIDER=anthropic go run ./cmd/serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/spetersoncode/delve/internal/config"
	"github.com/spetersoncode/delve/internal/logger"
	"github.com/spetersoncode/delve/server"
)

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
	cfg, err := config.Load("serve", os.Args[1:])
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	researcher, err := cfg.NewResearcher(ctx, log)
	if err != nil {
		return err
	}

	srv := server.New(":"+cfg.Port, researcher, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Info("delve server ready",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"max_rounds", cfg.MaxRounds,
		"query", "http://localhost:"+cfg.Port+"/chat/query",
		"agui", "http://localhost:"+cfg.Port+"/api/research",
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
