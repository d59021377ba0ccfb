package parser

import "log/slog"

// DefaultMaxDepth bounds expression nesting when Options.MaxDepth is unset.
const DefaultMaxDepth = 1000

// Options configures parser behaviour.
type Options struct {
	// MaxDepth is the deepest expression nesting accepted before the parser
	// fails with ErrDepthExceeded. Values <= 0 select DefaultMaxDepth.
	MaxDepth int
	// Logger receives debug records about each parse. Nil discards them.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth sets Options.MaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLogger sets Options.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
