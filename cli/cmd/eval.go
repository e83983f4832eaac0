package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/session"
)

// Eval evaluates statements against a single shared environment.
type Eval struct {
	Statements []string         `arg:"" help:"Statements to evaluate, separated by ';' or newline" name:"stmt"   optional:""`
	File       []string         `       help:"Read statements from file(s) or '-' for stdin"                       placeholder:"FILE"       short:"f" type:"existingfile"`
	Define     map[string]int64 `       help:"Bind a variable before evaluation"                                   placeholder:"NAME=VALUE" short:"D"`
	Echo       bool             `       help:"Print each statement with its result"                                                         short:"e"`
	Output     string           `       help:"Output format (${enum})"                                              default:"text"           short:"o" enum:"text,json,yaml"`
	Indent     int              `       help:"Indent width for JSON and YAML output"                                default:"2"              short:"i"`
}

// Validate rejects -D names that are not identifiers.
func (e *Eval) Validate() error { return validateDefines(e.Define) }

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rep, err := e.reporter(ctx)
	if err != nil {
		return err
	}

	s := newSession(ctx, session.WithVariables(e.Define))

	var total, failed int

	for src, err := range e.sources(ctx) {
		if err != nil {
			failed++

			rep.fail(src, err)

			continue
		}

		for r := range s.Run(ctx, src.Text) {
			total++

			if !r.OK() {
				failed++
			}

			rep.result(src, r)
		}

		if err := context.Cause(ctx); err != nil {
			return err
		}
	}

	if total == 0 && failed == 0 {
		return ErrNoInput
	}

	if err := rep.finish(ctx, s); err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluation complete",
		slog.String("session", s.ID().String()),
		slog.Int("statements", total),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrStatementsFailed.With(
			slog.Int("failed", failed),
			slog.Int("statements", total),
		)
	}

	return nil
}

// sources returns the inputs in precedence order: statement arguments, else
// the named files, else standard input if it is not a terminal.
func (e *Eval) sources(ctx context.Context) iter.Seq2[Source, error] {
	if len(e.Statements) > 0 {
		return func(yield func(Source, error) bool) {
			for i, stmt := range e.Statements {
				if !yield(Source{Name: "arg" + strconv.Itoa(i+1), Text: stmt}, nil) {
					return
				}
			}
		}
	}

	paths := append(append([]string{}, sourceFilesFrom(ctx)...), e.File...)
	if len(paths) == 0 && !interactive(stdinFrom(ctx)) {
		paths = []string{stdinSource}
	}

	return readSources(ctx, paths)
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()

	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// reporter receives every statement outcome of an eval run.
type reporter interface {
	result(src Source, r session.Result)
	fail(src Source, err error)
	finish(ctx context.Context, s *session.Session) error
}

func (e *Eval) reporter(ctx context.Context) (reporter, error) {
	switch e.Output {
	case "", "text":
		errOut := stderr(ctx)

		return &textReporter{
			out:   stdout(ctx),
			err:   errOut,
			echo:  e.Echo,
			label: lipgloss.NewRenderer(errOut).NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		}, nil

	case "json", "yaml":
		return &docReporter{
			out:    stdout(ctx),
			format: e.Output,
			indent: e.Indent,
		}, nil

	default:
		return nil, ErrUnknownFormat.With(slog.String("format", e.Output))
	}
}

// textReporter prints values to stdout and diagnostics to stderr as they
// arrive.
type textReporter struct {
	out, err io.Writer
	echo     bool
	label    lipgloss.Style
}

func (t *textReporter) result(src Source, r session.Result) {
	if !r.OK() {
		where := src.Name
		if pos := r.ErrorPosition(); pos.IsValid() {
			where += ":" + pos.String()
		}

		fmt.Fprintf(t.err, "%s: %s %s\n",
			where, t.label.Render(r.Stage()+" error:"), r.ErrorDetail())

		return
	}

	if t.echo {
		fmt.Fprintf(t.out, "%s => %d\n", r.Source, r.Value)
	} else {
		fmt.Fprintln(t.out, r.Value)
	}
}

func (t *textReporter) fail(src Source, err error) {
	fmt.Fprintf(t.err, "%s: %s %v\n", src.Name, t.label.Render("read error:"), err)
}

func (*textReporter) finish(context.Context, *session.Session) error { return nil }

// record is the document form of one statement outcome.
type record struct {
	Input  string `json:"input"           yaml:"input"`
	Index  int    `json:"index"           yaml:"index"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Pos    string `json:"pos"             yaml:"pos"`
	Value  *int64 `json:"value,omitempty" yaml:"value,omitempty"`
	Stage  string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// document is the complete JSON or YAML output of an eval run.
type document struct {
	Session  string            `json:"session"  yaml:"session"`
	Results  []record          `json:"results"  yaml:"results"`
	Bindings []session.Binding `json:"bindings" yaml:"bindings"`
}

// docReporter collects outcomes and writes one document when finished.
type docReporter struct {
	out     io.Writer
	format  string
	indent  int
	records []record
}

func (d *docReporter) result(src Source, r session.Result) {
	rec := record{
		Input:  src.Name,
		Index:  r.Index,
		Source: r.Source,
		Pos:    r.Pos.String(),
	}

	if r.OK() {
		rec.Value = &r.Value
	} else {
		rec.Stage = r.Stage()
		rec.Error = r.Err.Error()

		if pos := r.ErrorPosition(); pos.IsValid() {
			rec.Pos = pos.String()
			rec.Error = r.ErrorDetail()
		}
	}

	d.records = append(d.records, rec)
}

func (d *docReporter) fail(src Source, err error) {
	d.records = append(d.records, record{
		Input: src.Name,
		Index: -1,
		Pos:   lang.Position{}.String(),
		Stage: "read",
		Error: err.Error(),
	})
}

func (d *docReporter) finish(ctx context.Context, s *session.Session) error {
	doc := document{
		Session:  s.ID().String(),
		Results:  d.records,
		Bindings: s.Bindings(),
	}

	if doc.Results == nil {
		doc.Results = []record{}
	}

	switch d.format {
	case "json":
		enc := json.NewEncoder(d.out)
		if d.indent > 0 {
			enc.SetIndent("", fmt.Sprintf("%*s", d.indent, ""))
		}

		if err := enc.Encode(doc); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		opts := []yaml.EncodeOption{yaml.Indent(max(d.indent, 1))}

		data, err := yaml.MarshalContext(ctx, doc, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := d.out.Write(data); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	return nil
}
