package validate

import (
	"go.uber.org/zap"

	"github.com/promptshape/promptshape/internal/metrics"
	"github.com/promptshape/promptshape/schema"
)

// Strictness selects the numeric coercion policy.
type Strictness int

const (
	// Lenient accepts lossless cross-coercions: a whole-valued float for an
	// int field, an int for a float field, and an exactly parseable numeric
	// string for either.
	Lenient Strictness = iota
	// Strict disables numeric/string cross-coercion entirely; values must
	// arrive as the native type (json.Number is resolved by its literal
	// form: no fraction or exponent for int fields).
	Strict
)

// Options configures a Validator.
type Options struct {
	// RejectUnknownFields turns raw keys not declared by the schema into
	// UnknownField errors. Off by default: the schema is a projection, not a
	// strict-mode contract.
	RejectUnknownFields bool
	// Strictness selects the coercion policy. Defaults to Lenient.
	Strictness Strictness
}

// DefaultOptions returns the default validator options.
func DefaultOptions() *Options {
	return &Options{
		RejectUnknownFields: false,
		Strictness:          Lenient,
	}
}

// Option configures a Validator at construction.
type Option func(*Validator)

// WithOptions replaces the validator's options.
func WithOptions(opts *Options) Option {
	return func(v *Validator) {
		if opts != nil {
			v.opts = opts
		}
	}
}

// WithRegistry supplies the registry used to resolve named record references
// encountered in field types.
func WithRegistry(reg *schema.Registry) Option {
	return func(v *Validator) { v.registry = reg }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMetrics attaches a metrics collector; each validation call and error
// kind is counted against it.
func WithMetrics(c *metrics.Collector) Option {
	return func(v *Validator) { v.metrics = c }
}
