// Package session evaluates sequences of statements against a shared
// variable environment.
//
// A [Session] owns one [lang.Environment] and serialises access to it, so the
// REPL and the command-line runner can share a session without further
// locking. Source text is split into statements on a configurable delimiter
// set, and every statement yields a [Result] whether it succeeded or not.
package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// ErrReplace is returned by [Session.Replace] when the replacement source
// contains a failing statement.
var ErrReplace = errors.New("replacement failed")

// ErrInvalidName is returned when a binding name is not a variable name
// that source text could refer to.
var ErrInvalidName = errors.New("invalid variable name")

// Session is a statement evaluator with a persistent environment.
type Session struct {
	id     uuid.UUID
	mu     sync.Mutex
	env    *lang.Environment
	delims string
	opts   []lang.Option
	logger log.Logger
	count  int
	seed   map[string]int64
}

// Option configures a Session.
type Option func(*Session)

// WithDelimiters sets the bytes that separate statements.
// An empty string restores [DefaultDelimiters].
func WithDelimiters(delims string) Option {
	return func(s *Session) {
		s.delims = delims
	}
}

// WithLangOptions sets the options passed to the parser and evaluator.
func WithLangOptions(opts ...lang.Option) Option {
	return func(s *Session) {
		s.opts = append(s.opts, opts...)
	}
}

// WithLogger sets the logger used to report statement outcomes.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithVariables seeds the environment with the given bindings. Names that
// are not identifiers are logged and skipped.
func WithVariables(vars map[string]int64) Option {
	return func(s *Session) {
		if s.seed == nil {
			s.seed = make(map[string]int64, len(vars))
		}

		maps.Copy(s.seed, vars)
	}
}

// New returns a session with a fresh environment and a random identifier.
func New(opts ...Option) *Session {
	s := &Session{
		id:     uuid.New(),
		env:    lang.NewEnvironment(),
		delims: DefaultDelimiters,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.delims == "" {
		s.delims = DefaultDelimiters
	}

	s.logger = s.logger.With(slog.String("session", s.id.String()))

	for name, value := range s.seed {
		if err := s.Set(name, value); err != nil {
			s.logger.Warn("skipping variable", slog.Any("error", err))
		}
	}

	s.seed = nil

	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Result is the outcome of one statement.
type Result struct {
	Statement

	// Index is the 0-based ordinal of the statement within its session.
	Index int
	Value int64
	Err   error
}

// OK reports whether the statement evaluated successfully.
func (r Result) OK() bool { return r.Err == nil }

// Stage names the stage that failed: "parse", "eval", or "" on success.
// Errors from outside the language, such as cancellation, report "run".
func (r Result) Stage() string {
	switch {
	case r.Err == nil:
		return ""

	case lang.IsParseError(r.Err):
		return lang.ClassParse.String()

	case lang.IsEvalError(r.Err):
		return lang.ClassEval.String()

	default:
		return "run"
	}
}

// ErrorPosition returns the position of the failure within the full input,
// if the error carries one.
func (r Result) ErrorPosition() lang.Position {
	var e *lang.Error
	if errors.As(r.Err, &e) {
		return e.Position()
	}

	return lang.Position{}
}

// ErrorDetail returns the failure message without its position.
func (r Result) ErrorDetail() string {
	var e *lang.Error
	if errors.As(r.Err, &e) {
		return e.Detail()
	}

	if r.Err != nil {
		return r.Err.Error()
	}

	return ""
}

// String returns "source => value" on success or the stage and error on
// failure.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s error: %v", r.Source, r.Stage(), r.Err)
	}

	return fmt.Sprintf("%s => %d", r.Source, r.Value)
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("index", r.Index),
		slog.String("stmt", r.Source),
		slog.String("pos", r.Pos.String()),
	}

	if r.Err != nil {
		return slog.GroupValue(append(attrs, slog.Any("error", r.Err))...)
	}

	return slog.GroupValue(append(attrs, slog.Int64("value", r.Value))...)
}

// Exec parses and evaluates a single statement. The source is not split.
func (s *Session) Exec(ctx context.Context, stmt string) Result {
	return s.exec(ctx, Statement{
		Pos:    lang.Position{Line: 1, Column: 1},
		Source: stmt,
	})
}

// Run splits src into statements and evaluates each in order. Evaluation
// continues past failed statements; a cancelled context yields one final
// failed result and ends the sequence.
func (s *Session) Run(ctx context.Context, src string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for stmt := range Split(src, s.delims) {
			r := s.exec(ctx, stmt)
			if !yield(r) || (r.Err != nil && ctx.Err() != nil) {
				return
			}
		}
	}
}

func (s *Session) exec(ctx context.Context, stmt Statement) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Result{Statement: stmt, Index: s.count}
	s.count++

	if err := context.Cause(ctx); err != nil {
		r.Err = err
	} else {
		r.Value, r.Err = lang.Run(ctx, stmt.Source, s.env, s.opts...)
	}

	// Report positions relative to the full input.
	var e *lang.Error
	if errors.As(r.Err, &e) && e.Position().IsValid() {
		r.Err = e.At(stmt.Locate(e.Position()))
	}

	if r.Err != nil {
		s.logger.DebugContext(ctx, "statement failed", slog.Any("result", r))
	} else {
		s.logger.DebugContext(ctx, "statement complete", slog.Any("result", r))
	}

	return r
}

// Env returns a copy of the current environment.
func (s *Session) Env() *lang.Environment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.env.Clone()
}

// Set binds name to value in the session environment. It returns an error
// wrapping [ErrInvalidName] if name is not an identifier.
func (s *Session) Set(name string, value int64) error {
	if !lang.IsIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.env.Set(name, value)

	return nil
}

// Reset removes all bindings and restarts statement numbering.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.env.Reset()
	s.count = 0

	s.logger.Debug("session reset")
}

// Binding is a single variable and its value.
type Binding struct {
	Name  string `json:"name"  yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

// String returns the binding as an assignment statement that parses.
func (b Binding) String() string {
	return lang.NewAssign(b.Name, lang.Constant(b.Value)).String()
}

// Bindings returns the current bindings in name order.
func (s *Session) Bindings() []Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	bindings := make([]Binding, 0, s.env.Len())
	for name, value := range s.env.All() {
		bindings = append(bindings, Binding{Name: name, Value: value})
	}

	return bindings
}

// Source renders the current bindings as assignment statements, one per
// line, such that running the result in an empty session restores them.
func (s *Session) Source() string {
	var b strings.Builder

	for _, binding := range s.Bindings() {
		b.WriteString(binding.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// Replace evaluates src in a fresh environment and, if every statement
// succeeds, adopts that environment. On failure the session is unchanged and
// the returned error wraps [ErrReplace] and the first failing statement's
// error.
func (s *Session) Replace(ctx context.Context, src string) error {
	scratch := New(
		WithDelimiters(s.delims),
		WithLangOptions(s.opts...),
	)

	for r := range scratch.Run(ctx, src) {
		if r.Err != nil {
			return fmt.Errorf("%w: statement %d: %w", ErrReplace, r.Index+1, r.Err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.env = scratch.env

	s.logger.DebugContext(ctx, "session replaced", slog.Int("bindings", s.env.Len()))

	return nil
}
