package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/calc/log"
)

// DefaultMaxDepth is the default maximum nesting depth of parenthesized and
// assigned sub-expressions. Users may modify this before parsing to change the
// default.
var DefaultMaxDepth = 256

// OverflowPolicy selects how arithmetic results outside the int64 range are
// handled.
type OverflowPolicy int

const (
	// OverflowError fails evaluation with [ErrOverflow].
	OverflowError OverflowPolicy = iota
	// OverflowWrap wraps results using two's-complement arithmetic.
	OverflowWrap
	// OverflowSaturate clamps results to math.MinInt64 or math.MaxInt64.
	OverflowSaturate
)

// DefaultOverflow is the overflow policy used when none is given.
const DefaultOverflow = OverflowError

// String returns the name of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowError:
		return "error"

	case OverflowWrap:
		return "wrap"

	case OverflowSaturate:
		return "saturate"

	default:
		return "unknown"
	}
}

// OverflowPolicies returns the names of all overflow policies.
func OverflowPolicies() []string {
	return []string{
		OverflowError.String(),
		OverflowWrap.String(),
		OverflowSaturate.String(),
	}
}

// ParseOverflowPolicy parses the name of an overflow policy.
// Unrecognized names yield [DefaultOverflow] and false.
func ParseOverflowPolicy(s string) (OverflowPolicy, bool) {
	switch s {
	case "error":
		return OverflowError, true

	case "wrap":
		return OverflowWrap, true

	case "saturate":
		return OverflowSaturate, true

	default:
		return DefaultOverflow, false
	}
}

// options holds parser and evaluator configuration.
type options struct {
	maxDepth      int
	allowTrailing bool
	overflow      OverflowPolicy
	logger        log.Logger // zero value discards
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		maxDepth: DefaultMaxDepth,
		overflow: DefaultOverflow,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// A depth less than one disables the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithAllowTrailing controls whether the parser accepts unconsumed tokens
// after a complete expression. Trailing tokens are rejected by default.
func WithAllowTrailing(allow bool) Option {
	return func(o *options) {
		o.allowTrailing = allow
	}
}

// WithOverflow sets the evaluator's overflow policy.
func WithOverflow(policy OverflowPolicy) Option {
	return func(o *options) {
		o.overflow = policy
	}
}

// WithLogger sets the logger used to trace parsing and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Run parses src and evaluates the result against env.
// Parse errors are returned before env is touched.
func Run(
	ctx context.Context,
	src string,
	env *Environment,
	opts ...Option,
) (int64, error) {
	expr, err := Parse(ctx, src, opts...)
	if err != nil {
		return 0, err
	}

	return Eval(ctx, expr, env, opts...)
}

// exprAttr returns a log attribute holding the canonical form of e.
// The tree is only formatted if a handler resolves the attribute.
func exprAttr(e Expr) slog.Attr {
	return slog.Any("expr", exprValue{e})
}

// exprValue defers formatting an expression until it is logged.
type exprValue struct{ e Expr }

// LogValue implements [slog.LogValuer].
func (v exprValue) LogValue() slog.Value {
	if v.e == nil {
		return slog.StringValue("<nil>")
	}

	return slog.StringValue(Format(v.e))
}
