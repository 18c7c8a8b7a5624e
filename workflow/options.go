package workflow

import (
	"context"
	"log/slog"
	"time"
)

// StepCompleteFunc is called after each step's update has been applied.
type StepCompleteFunc func(ctx context.Context, result StepResult, elapsed time.Duration)

// Options contains configuration for workflow execution.
type Options struct {
	// Timeout sets a deadline for the entire run. Zero means none.
	Timeout time.Duration

	// StepTimeout sets a deadline for each step. Zero means none.
	StepTimeout time.Duration

	// RunID identifies the run. A random UUID is used when empty.
	RunID string

	// Logger receives debug logs for step transitions.
	Logger *slog.Logger

	// OnStepComplete is called after each completed step.
	OnStepComplete StepCompleteFunc
}

// Option is a functional option for workflow configuration.
type Option func(*Options)

// WithTimeout sets the overall run timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithStepTimeout sets the timeout for each step.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StepTimeout = d
	}
}

// WithRunID sets the run identifier reported in results and events.
func WithRunID(id string) Option {
	return func(o *Options) {
		o.RunID = id
	}
}

// WithLogger sets the logger used for step transitions.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithOnStepComplete registers a callback invoked after each step.
func WithOnStepComplete(fn StepCompleteFunc) Option {
	return func(o *Options) {
		o.OnStepComplete = fn
	}
}

// ApplyOptions applies functional options with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
