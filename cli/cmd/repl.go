package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/session"
)

// Repl starts an interactive session.
type Repl struct {
	Define    map[string]int64 `help:"Bind a variable before the session starts" placeholder:"NAME=VALUE" short:"D"`
	NoHistory bool             `help:"Do not read or write input history"`
}

// Validate rejects -D names that are not identifiers.
func (r *Repl) Validate() error { return validateDefines(r.Define) }

// Run executes the repl command. Statements from --source files are
// evaluated before the first prompt.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := newSession(ctx, session.WithVariables(r.Define))

	if err := preload(ctx, s, sourceFilesFrom(ctx)); err != nil {
		return err
	}

	return repl.Run(ctx, s, r.historyPath(ctx), log.Default())
}

// historyPath returns the history file in the cache directory, or "" if
// history is disabled.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}

// preload evaluates every statement of the given sources in s, reporting
// failures on stderr. Only unreadable sources and cancellation are errors.
func preload(ctx context.Context, s *session.Session, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	errOut := stderr(ctx)

	for src, err := range readSources(ctx, paths) {
		if err != nil {
			return ErrReadSource.
				With(slog.String("source", src.Name)).
				Wrap(err)
		}

		for r := range s.Run(ctx, src.Text) {
			if !r.OK() {
				fmt.Fprintf(errOut, "%s:%s: %s error: %s\n",
					src.Name, r.ErrorPosition(), r.Stage(), r.ErrorDetail())
			}
		}

		if err := context.Cause(ctx); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "session preloaded",
		slog.String("session", s.ID().String()),
		slog.Int("bindings", s.Env().Len()),
	)

	return nil
}
