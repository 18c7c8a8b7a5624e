// Package config loads delve settings from the environment, an optional
// .env file and command-line flags. Flags win over the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/client"
	"github.com/spetersoncode/delve/research"
	"github.com/spetersoncode/delve/workflow"
)

// Config holds the configuration shared by the delve commands.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string
	BaseURL  string

	// API Keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Research
	MaxQueries     int
	MaxRounds      int
	PromptsFile    string
	Timeout        time.Duration // 0 disables the run timeout
	GatewayRetries int

	// Generation, zero values leave the provider defaults
	MaxTokens   int
	Temperature *float64

	// Args holds the positional arguments left after flag parsing.
	Args []string

	// envErr collects environment values that failed to parse.
	envErr error
}

// Load reads .env (if present), then the environment, then parses args as
// flags named after cmd. The result is validated.
func Load(cmd string, args []string) (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := FromEnv()

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port (or set DELVE_PORT env var)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (or set DELVE_LOG_LEVEL env var)")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "model provider: anthropic, openai, google, ollama (or set DELVE_PROVIDER env var)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model name, empty for the provider default (or set DELVE_MODEL env var)")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "provider endpoint override (or set DELVE_BASE_URL env var)")
	fs.IntVar(&cfg.MaxQueries, "max-queries", cfg.MaxQueries, "search queries generated per question (or set DELVE_MAX_QUERIES env var)")
	fs.IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "maximum research rounds (or set DELVE_MAX_ROUNDS env var)")
	fs.StringVar(&cfg.PromptsFile, "prompts", cfg.PromptsFile, "YAML file with prompt templates (or set DELVE_PROMPTS_FILE env var)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-question timeout, 0 for none (or set DELVE_TIMEOUT env var)")
	fs.IntVar(&cfg.GatewayRetries, "retries", cfg.GatewayRetries, "retries of transient provider errors (or set DELVE_GATEWAY_RETRIES env var)")
	fs.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "maximum tokens per model response, 0 for the provider default (or set DELVE_MAX_TOKENS env var)")
	var temperature float64
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	fs.Float64Var(&temperature, "temperature", temperature, "sampling temperature 0.0 to 2.0, unset for the provider default (or set DELVE_TEMPERATURE env var)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.Changed("temperature") {
		cfg.Temperature = &temperature
	}
	cfg.Args = fs.Args()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults alone.
// Values that fail to parse are reported by Validate.
func FromEnv() *Config {
	env := &envReader{}
	cfg := &Config{
		Port:           getEnvOrDefault("DELVE_PORT", "8080"),
		LogLevel:       getEnvOrDefault("DELVE_LOG_LEVEL", "info"),
		Provider:       getEnvOrDefault("DELVE_PROVIDER", string(delve.ProviderOllama)),
		Model:          os.Getenv("DELVE_MODEL"),
		BaseURL:        os.Getenv("DELVE_BASE_URL"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GoogleKey:      os.Getenv("GOOGLE_API_KEY"),
		MaxQueries:     env.intOrDefault("DELVE_MAX_QUERIES", research.DefaultMaxQueryCount),
		MaxRounds:      env.intOrDefault("DELVE_MAX_ROUNDS", research.DefaultMaxRounds),
		PromptsFile:    os.Getenv("DELVE_PROMPTS_FILE"),
		Timeout:        env.durationOrDefault("DELVE_TIMEOUT", 0),
		GatewayRetries: env.intOrDefault("DELVE_GATEWAY_RETRIES", 0),
		MaxTokens:      env.intOrDefault("DELVE_MAX_TOKENS", 0),
		Temperature:    env.optionalFloat("DELVE_TEMPERATURE"),
	}
	cfg.envErr = env.err()
	return cfg
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.envErr != nil {
		return c.envErr
	}

	provider, err := delve.ParseProvider(c.Provider)
	if err != nil {
		return err
	}

	switch provider {
	case delve.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case delve.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case delve.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	}

	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.MaxQueries < 1 {
		return fmt.Errorf("max queries must be at least 1, got %d", c.MaxQueries)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.GatewayRetries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.GatewayRetries)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", *c.Temperature)
	}
	return nil
}

// APIKey returns the key of the selected provider.
func (c *Config) APIKey() string {
	switch delve.Provider(c.Provider) {
	case delve.ProviderAnthropic:
		return c.AnthropicKey
	case delve.ProviderOpenAI:
		return c.OpenAIKey
	case delve.ProviderGoogle:
		return c.GoogleKey
	default:
		return ""
	}
}

// ClientConfig returns the gateway client configuration.
func (c *Config) ClientConfig(log *slog.Logger) client.Config {
	rc := client.DisabledRetryConfig()
	if c.GatewayRetries > 0 {
		rc = client.DefaultRetryConfig(c.GatewayRetries + 1)
	}
	return client.Config{
		Provider: delve.Provider(c.Provider),
		APIKey:   c.APIKey(),
		Model:    c.Model,
		BaseURL:  c.BaseURL,
		Retry:    rc,
		Logger:   log,
	}
}

// ResearchOptions returns the researcher options, loading the prompts file
// when one is configured.
func (c *Config) ResearchOptions(log *slog.Logger) ([]research.Option, error) {
	opts := []research.Option{
		research.WithMaxQueryCount(c.MaxQueries),
		research.WithMaxRounds(c.MaxRounds),
		research.WithLogger(log),
	}
	if c.PromptsFile != "" {
		prompts, err := research.LoadPrompts(c.PromptsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, research.WithPrompts(prompts))
	}
	if c.Timeout > 0 {
		opts = append(opts, research.WithEngineOptions(workflow.WithTimeout(c.Timeout)))
	}
	if gw := c.GatewayOptions(); len(gw) > 0 {
		opts = append(opts, research.WithGatewayOptions(gw...))
	}
	return opts, nil
}

// GatewayOptions returns the per-call generation settings.
func (c *Config) GatewayOptions() []delve.Option {
	var opts []delve.Option
	if c.MaxTokens > 0 {
		opts = append(opts, delve.WithMaxTokens(c.MaxTokens))
	}
	if c.Temperature != nil {
		opts = append(opts, delve.WithTemperature(*c.Temperature))
	}
	return opts
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed environment values, collecting every parse error.
type envReader struct {
	errs []error
}

func (r *envReader) intOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return i
}

func (r *envReader) durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return defaultValue
	}
	return d
}

func (r *envReader) optionalFloat(key string) *float64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", key, value))
		return nil
	}
	return &f
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// NewResearcher builds the gateway client and the researcher described by c.
func (c *Config) NewResearcher(ctx context.Context, log *slog.Logger) (*research.Researcher, error) {
	gateway, err := client.New(ctx, c.ClientConfig(log))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	opts, err := c.ResearchOptions(log)
	if err != nil {
		return nil, err
	}

	r, err := research.New(gateway, opts...)
	if err != nil {
		return nil, fmt.Errorf("create researcher: %w", err)
	}
	return r, nil
}
