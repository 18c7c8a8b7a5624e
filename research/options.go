package research

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/workflow"
)

const (
	// DefaultMaxQueryCount is the number of search queries requested up front.
	DefaultMaxQueryCount = 2

	// DefaultMaxRounds caps the number of Research executions per run.
	DefaultMaxRounds = 3

	// DefaultSeparator joins summaries in the Reflect and Finalize prompts.
	DefaultSeparator = "\n\n-----\n\n"
)

// ErrInvalidConfig is returned by New for unusable options.
var ErrInvalidConfig = errors.New("research: invalid configuration")

// Options configures a Researcher.
type Options struct {
	// MaxQueryCount is passed to the GenerateQueries prompt.
	MaxQueryCount int

	// MaxRounds is the research round cap. The Reflect branch stops once
	// this many rounds have run, whatever the model says.
	MaxRounds int

	// Prompts are the four step templates.
	Prompts Prompts

	// Separator joins summaries before Reflect and Finalize.
	Separator string

	// Clock provides the current date for the GenerateQueries prompt.
	Clock clockwork.Clock

	// Logger receives run and step logs.
	Logger *slog.Logger

	// GatewayOptions are passed to every gateway call.
	GatewayOptions []delve.Option

	// EngineOptions are compiled into the workflow engine as run defaults.
	EngineOptions []workflow.Option
}

// Option is a functional option for Researcher configuration.
type Option func(*Options)

// WithMaxQueryCount sets the number of initial queries to request.
func WithMaxQueryCount(n int) Option {
	return func(o *Options) {
		o.MaxQueryCount = n
	}
}

// WithMaxRounds sets the research round cap.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		o.MaxRounds = n
	}
}

// WithPrompts replaces the prompt templates.
func WithPrompts(p Prompts) Option {
	return func(o *Options) {
		o.Prompts = p
	}
}

// WithSeparator sets the summary separator.
func WithSeparator(sep string) Option {
	return func(o *Options) {
		o.Separator = sep
	}
}

// WithClock sets the clock used for the current date.
func WithClock(c clockwork.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithGatewayOptions sets options passed to every gateway call.
func WithGatewayOptions(opts ...delve.Option) Option {
	return func(o *Options) {
		o.GatewayOptions = append(o.GatewayOptions, opts...)
	}
}

// WithEngineOptions sets default workflow options for every run.
func WithEngineOptions(opts ...workflow.Option) Option {
	return func(o *Options) {
		o.EngineOptions = append(o.EngineOptions, opts...)
	}
}

// ApplyOptions applies functional options over the defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxQueryCount: DefaultMaxQueryCount,
		MaxRounds:     DefaultMaxRounds,
		Prompts:       DefaultPrompts(),
		Separator:     DefaultSeparator,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.Prompts = o.Prompts.withDefaults()
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o *Options) validate() error {
	if o.MaxQueryCount < 1 {
		return fmt.Errorf("%w: max query count must be at least 1, got %d", ErrInvalidConfig, o.MaxQueryCount)
	}
	if o.MaxRounds < 1 {
		return fmt.Errorf("%w: max rounds must be at least 1, got %d", ErrInvalidConfig, o.MaxRounds)
	}
	return nil
}
