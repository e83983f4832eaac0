// Package lang implements a small integer expression language: a tokenizer,
// a precedence-climbing recursive-descent parser producing an abstract syntax
// tree, and a tree-walking evaluator over a mutable variable [Environment].
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	expression     → assignment
//	assignment     → additive ( '=' assignment )?
//	additive       → multiplicative ( ('+' | '-') multiplicative )*
//	multiplicative → factor ( ('*' | '/') factor )*
//	factor         → Number | Identifier | '(' expression ')'
//
// Binary operators are left associative. Assignment is right associative and
// its left operand must be a variable, optionally parenthesized. Numbers are
// non-negative decimal integers that fit in an int64; there is no unary minus.
// Identifiers are ASCII letters, digits, and underscores, not starting with a
// digit. Whitespace separates tokens and is otherwise ignored.
//
// # Example
//
//	env := lang.NewEnvironment()
//
//	lang.Run(ctx, "x = 4", env)         // 4
//	lang.Run(ctx, "y = x * (2 + 1)", env) // 12
//	lang.Run(ctx, "y / 5 - x", env)     // -2
//
// # Semantics
//
// Values are 64-bit signed integers. Division truncates toward zero and a zero
// divisor is an error. Results outside the int64 range are handled according
// to the [OverflowPolicy] selected with [WithOverflow]. Reading a variable that
// has never been assigned is an error; there are no implicit defaults.
//
// Evaluation is strictly left to right: the left operand of a binary
// expression, including any assignments it performs, is fully evaluated before
// the right operand. Evaluation stops at the first error, leaving any
// assignments already performed in place.
//
// # Errors
//
// Parse errors and evaluation errors are disjoint. Each is derived from a
// sentinel such as [ErrUnexpectedToken] or [ErrDivisionByZero], so callers
// match them with [errors.Is] and classify them with [IsParseError] and
// [IsEvalError]. Errors carry the source position of the offending token or
// node and implement [log/slog.LogValuer].
package lang
