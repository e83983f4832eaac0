package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Class partitions errors by the stage that produced them.
type Class int

const (
	// ClassParse identifies lexical and syntactic errors.
	ClassParse Class = iota + 1
	// ClassEval identifies errors raised while evaluating a parsed expression.
	ClassEval
)

// String returns the stage name of the error class.
func (c Class) String() string {
	switch c {
	case ClassParse:
		return "parse"

	case ClassEval:
		return "eval"

	default:
		return "unknown"
	}
}

// Predefined errors (sentinel values).
var (
	ErrUnexpectedChar      = newParseError("unexpected character")
	ErrNumberRange         = newParseError("number out of range")
	ErrUnexpectedToken     = newParseError("unexpected token")
	ErrUnexpectedEOF       = newParseError("unexpected end of input")
	ErrExpectedCloseParen  = newParseError("expected closing parenthesis")
	ErrInvalidAssignTarget = newParseError(
		"left side of assignment must be a variable",
	)
	ErrTrailingInput    = newParseError("unexpected input after expression")
	ErrMaxDepthExceeded = newParseError("maximum nesting depth exceeded")

	ErrUndefinedVariable = newEvalError("undefined variable")
	ErrDivisionByZero    = newEvalError("division by zero")
	ErrOverflow          = newEvalError("integer overflow")
	ErrNilEnvironment    = newEvalError("nil environment")
	ErrInvalidNode       = newEvalError("invalid expression node")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Every Error derives from one of the sentinel values above. Derived errors
// match their sentinel with errors.Is.
type Error struct {
	msg     string
	subject string
	err     error       // Wrapped error (for errors.Unwrap)
	attrs   []slog.Attr // Attributes for structured logging
	pos     Position
	class   Class
	base    *Error
}

func newParseError(msg string) *Error {
	return &Error{msg: msg, class: ClassParse}
}

func newEvalError(msg string) *Error {
	return &Error{msg: msg, class: ClassEval}
}

// Error implements the error interface.
// The message has the form "<line>:<col>: <detail>", or just the detail if
// the error has no position.
func (e *Error) Error() string {
	if e.pos.IsValid() {
		return e.pos.String() + ": " + e.Detail()
	}

	return e.Detail()
}

// Detail returns the error message without its position, formed from every
// field that is set, in order: "<msg>: <subject>: <err>".
func (e *Error) Detail() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.subject != "" {
		part = append(part, e.subject)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.root() == t.root()
}

// Class returns the stage that produced the error.
func (e *Error) Class() Class { return e.class }

// Position returns the source position associated with the error.
// The returned position is invalid if the error has no location.
func (e *Error) Position() Position { return e.pos }

// Subject returns the offending lexeme or name, if any.
func (e *Error) Subject() string { return e.subject }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	attrs = append(attrs, slog.String("stage", e.class.String()))

	if e.subject != "" {
		attrs = append(attrs, slog.String("subject", e.subject))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// At returns a copy of the error located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// About returns a copy of the error naming the offending lexeme or variable.
func (e *Error) About(subject string) *Error {
	c := e.clone()
	c.subject = subject

	return c
}

func (e *Error) clone() *Error {
	c := *e
	c.base = e.root()

	return &c
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// IsParseError reports whether err originated in the tokenizer or parser.
func IsParseError(err error) bool {
	return classOf(err) == ClassParse
}

// IsEvalError reports whether err originated in the evaluator.
func IsEvalError(err error) bool {
	return classOf(err) == ClassEval
}

func classOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.class
	}

	return 0
}

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position refers to a source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position formatted as "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
