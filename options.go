package borabora

import (
	"log/slog"

	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/tag"
	"github.com/chaisql/borabora/internal/types"
)

// Options of a Parser.
type Options struct {
	// Tag decoders, tried in order. Defaults to the built-in tags followed
	// by a fallback returning the raw bytes of unknown tags.
	Decoders types.Decoders
	// Tag encoders, tried in order. Defaults to the built-in tags.
	Encoders builder.Encoders
	// Receives debug records. Defaults to a logger discarding everything.
	Logger *slog.Logger
	// If set, structurally equal plans are shared.
	PlanCache bool
	// Number of nested containers and tags accepted when skipping over
	// an item. Zero means encoding.DefaultMaxNestedLevels.
	MaxNestedLevels int
}

// An Option configures a Parser.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Encoders:  tag.DefaultEncoders(),
		Logger:    slog.New(slog.DiscardHandler),
		PlanCache: true,
	}
}

// WithTagDecoders replaces the tag decoders.
func WithTagDecoders(decoders ...types.TagDecoder) Option {
	return func(o *Options) {
		o.Decoders = append(types.Decoders{}, decoders...)
	}
}

// WithTagEncoders replaces the tag encoders.
func WithTagEncoders(encoders ...builder.TagEncoder) Option {
	return func(o *Options) {
		o.Encoders = append(builder.Encoders{}, encoders...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithPlanCache enables or disables plan sharing.
func WithPlanCache(enabled bool) Option {
	return func(o *Options) {
		o.PlanCache = enabled
	}
}

// WithMaxNestedLevels limits the nesting of the items a parser skips over.
// Deeper items are reported as malformed.
func WithMaxNestedLevels(n int) Option {
	return func(o *Options) {
		o.MaxNestedLevels = max(n, 0)
	}
}
