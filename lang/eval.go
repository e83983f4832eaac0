package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Eval reduces expr to an integer using env for variable reads and writes.
//
// Evaluation is a single recursive walk that stops at the first error; no
// partial result is returned and no later subtree is evaluated. The left
// operand of a binary expression is evaluated completely, including any
// assignments it performs, before the right operand.
func Eval(
	ctx context.Context,
	expr Expr,
	env *Environment,
	opts ...Option,
) (int64, error) {
	if env == nil {
		return 0, ErrNilEnvironment
	}

	ev := &evaluator{
		ctx:  ctx,
		env:  env,
		opts: makeOptions(opts...),
	}

	result, err := ev.eval(expr)
	if err != nil {
		ev.opts.logger.TraceContext(ctx, "eval failed",
			exprAttr(expr),
			slog.Any("error", err))

		return 0, err
	}

	ev.opts.logger.TraceContext(ctx, "eval complete",
		exprAttr(expr),
		slog.Int64("result", result),
		slog.Int("nodes", ev.nodes))

	return result, nil
}

// evaluator holds the state for one recursive evaluation.
type evaluator struct {
	ctx   context.Context
	env   *Environment
	opts  options
	nodes int
}

// eval recursively evaluates a node.
func (ev *evaluator) eval(expr Expr) (int64, error) {
	if err := context.Cause(ev.ctx); err != nil {
		return 0, err
	}

	ev.nodes++

	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *Variable:
		value, ok := ev.env.Get(e.Name)
		if !ok {
			return 0, ErrUndefinedVariable.At(e.Pos).About(e.Name)
		}

		return value, nil

	case *Assign:
		// The value sees the prior binding, so x = x + 1 increments.
		value, err := ev.eval(e.Value)
		if err != nil {
			return 0, err
		}

		ev.env.Set(e.Name, value)

		ev.opts.logger.TraceContext(ev.ctx, "assign",
			slog.String("name", e.Name),
			slog.Int64("value", value))

		return value, nil

	case *Binary:
		return ev.evalBinary(e)

	default:
		return 0, ErrInvalidNode.About(nodeName(expr))
	}
}

func (ev *evaluator) evalBinary(e *Binary) (int64, error) {
	left, err := ev.eval(e.Left)
	if err != nil {
		return 0, err
	}

	right, err := ev.eval(e.Right)
	if err != nil {
		return 0, err
	}

	var (
		result   int64
		overflow bool
	)

	switch e.Op {
	case OpAdd:
		result, overflow = add(left, right)

	case OpSubtract:
		result, overflow = subtract(left, right)

	case OpMultiply:
		result, overflow = multiply(left, right)

	case OpDivide:
		if right == 0 {
			return 0, ErrDivisionByZero.At(e.Right.Position()).
				With(slog.Int64("dividend", left))
		}

		result, overflow = divide(left, right)

	default:
		return 0, ErrInvalidNode.At(e.Pos).About(e.Op.String())
	}

	if !overflow {
		return result, nil
	}

	switch ev.opts.overflow {
	case OverflowWrap:
		return result, nil

	case OverflowSaturate:
		return saturate(e.Op, left, right), nil

	default:
		return 0, ErrOverflow.At(e.Pos).
			About(e.String()).
			With(
				slog.Int64("left", left),
				slog.String("op", e.Op.Symbol()),
				slog.Int64("right", right),
			)
	}
}

// Checked arithmetic. Each returns the two's-complement wrapped result and
// whether the true result lies outside the int64 range.

func add(a, b int64) (int64, bool) {
	c := a + b

	return c, (c > a) != (b > 0)
}

func subtract(a, b int64) (int64, bool) {
	c := a - b

	return c, (c < a) != (b > 0)
}

func multiply(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}

	c := a * b

	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return c, true
	}

	return c, c/b != a
}

func divide(a, b int64) (int64, bool) {
	if a == math.MinInt64 && b == -1 {
		return math.MinInt64, true
	}

	return a / b, false
}

// saturate returns the bound nearest to the true result of an overflowing
// operation. Overflow only occurs away from zero, so the sign of the true
// result decides the bound.
func saturate(op Op, a, b int64) int64 {
	negative := false

	switch op {
	case OpAdd:
		negative = a < 0

	case OpSubtract:
		negative = a < 0

	case OpMultiply, OpDivide:
		negative = (a < 0) != (b < 0)
	}

	if negative {
		return math.MinInt64
	}

	return math.MaxInt64
}

// nodeName describes an expression node for diagnostics.
func nodeName(expr Expr) string {
	if expr == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%T", expr)
}
