package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/session"
)

// Fmt parses statements and prints them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// Native formats input as canonical source, one statement per line.
type Native struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" type:"existingfile"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Source, func(w io.Writer, _ int, e lang.Expr) error {
		return lang.WriteNative(ctx, w, e)
	})
}

// JSON formats each statement as a JSON document.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, 0 for one line per statement" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" type:"existingfile"`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source, func(w io.Writer, _ int, e lang.Expr) error {
		if err := lang.WriteJSON(ctx, w, e, j.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil
	})
}

// YAML formats each statement as a YAML document.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, 0 for flow style" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" type:"existingfile"`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source, func(w io.Writer, n int, e lang.Expr) error {
		if n > 0 {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
		}

		if err := lang.WriteYAML(ctx, w, e, y.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil
	})
}

// AST formats input as an indented syntax tree.
type AST struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" type:"existingfile"`
}

// Run executes the ast format command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", a.Source, func(w io.Writer, _ int, e lang.Expr) error {
		return lang.Print(w, e)
	})
}

// format parses every statement of every source and writes each tree with
// write, numbering them from zero. Statements that fail to parse are reported
// on stderr and skipped.
func format(
	ctx context.Context,
	name string,
	paths []string,
	write func(w io.Writer, n int, e lang.Expr) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var (
		out, errOut = stdout(ctx), stderr(ctx)
		opts        = langOptionsFrom(ctx)
		delims      = delimitersFrom(ctx)
		written     int
		failed      int
	)

	for src, err := range readSources(ctx, paths) {
		if err != nil {
			return ErrReadSource.
				With(slog.String("source", src.Name)).
				Wrap(err)
		}

		for stmt := range session.Split(src.Text, delims) {
			expr, err := lang.Parse(ctx, stmt.Source, opts...)
			if err != nil {
				if cause := context.Cause(ctx); cause != nil {
					return cause
				}

				failed++

				reportParseError(errOut, src.Name, stmt, err)

				continue
			}

			if err := write(out, written, expr); err != nil {
				return err
			}

			written++
		}
	}

	if failed > 0 {
		return ErrStatementsFailed.With(
			slog.String("format", name),
			slog.Int("failed", failed),
			slog.Int("statements", written+failed),
		)
	}

	return nil
}

// reportParseError prints err with its position translated to the full
// input of the named source.
func reportParseError(w io.Writer, name string, stmt session.Statement, err error) {
	var e *lang.Error
	if errors.As(err, &e) && e.Position().IsValid() {
		fmt.Fprintf(w, "%s:%s: %s\n", name, stmt.Locate(e.Position()), e.Detail())

		return
	}

	fmt.Fprintf(w, "%s: %v\n", name, err)
}
