// Command ask researches one question and prints the answer.
//
// The question is taken from the arguments, or from stdin when there are
// none. Configuration matches cmd/serve (DELVE_* environment variables or
// flags).
//
// Usage:
//
//	go run ./cmd/ask --provider openai --max-rounds 2 "How do tides work?"
//	echo "How do tides work?" | go run ./cmd/ask
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/spetersoncode/delve/internal/config"
	"github.com/spetersoncode/delve/internal/logger"
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
	cfg, err := config.Load("ask", os.Args[1:])
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	query := strings.Join(cfg.Args, " ")
	if strings.TrimSpace(query) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}
		query = string(data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	researcher, err := cfg.NewResearcher(ctx, log)
	if err != nil {
		return err
	}

	answer, err := researcher.Answer(ctx, query)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
