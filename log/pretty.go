package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler. Styles render plain text
// when the output is not a color terminal.
type palette struct {
	key, str, num, yes, no, dur, tim, null lipgloss.Style
	trace, debug, info, warn, err          lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	color := func(c string) lipgloss.Style {
		return r.NewStyle().
			Inline(true).
			TabWidth(lipgloss.NoTabConversion).
			Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   color("8"),
		str:   color("6"),
		num:   color("3"),
		yes:   color("2"),
		no:    color("1"),
		dur:   color("5"),
		tim:   color("4"),
		null:  color("8"),
		trace: color("8"),
		debug: color("4"),
		info:  color("2"),
		warn:  color("3").Bold(true),
		err:   color("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// field is a rendered key/value pair. Grouped keys are joined with ".".
type field struct {
	key, text string
}

// prettyHandler writes records for a human reader, either as key=value
// pairs on one line or as an indented block of key: value lines.
type prettyHandler struct {
	opts    slog.HandlerOptions
	layout  Format
	palette palette
	mu      *sync.Mutex
	w       io.Writer
	groups  []string
	fields  []field
}

func newPrettyHandler(
	w io.Writer,
	layout Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:    *opts,
		layout:  layout,
		palette: newPalette(w),
		mu:      &sync.Mutex{},
		w:       w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.fields)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.appendAttr(fields, nil, slog.Time(slog.TimeKey, r.Time))
	}

	if a := h.replace(nil, slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		fields = append(fields, field{
			key:  a.Key,
			text: h.palette.level(r.Level).Render(a.Value.String()),
		})
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = h.appendAttr(fields, nil,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = h.appendAttr(fields, nil, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.fields...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.groups, a)

		return true
	})

	var buf bytes.Buffer

	switch h.layout {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(h.palette.key.Render(f.key))
			buf.WriteString(": ")
			buf.WriteString(f.text)
		}

		buf.WriteString("\n}\n")

	default:
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.palette.key.Render(f.key))
			buf.WriteByte('=')
			buf.WriteString(f.text)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.fields = slices.Clip(h.fields)

	for _, a := range attrs {
		c.fields = c.appendAttr(c.fields, c.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
	}

	a.Value = a.Value.Resolve()

	return a
}

// appendAttr resolves a and appends its rendered fields. Groups are
// flattened into dotted keys; empty groups and empty attrs are dropped.
func (h *prettyHandler) appendAttr(
	fields []field,
	groups []string,
	a slog.Attr,
) []field {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(slices.Clip(groups), a.Key)
		}

		for _, g := range a.Value.Group() {
			fields = h.appendAttr(fields, groups, g)
		}

		return fields
	}

	if a = h.replace(groups, a); a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	return append(fields, field{key: key, text: h.value(a.Value)})
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.palette.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.palette.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.palette.yes.Render("true")
		}

		return h.palette.no.Render("false")

	case slog.KindDuration:
		return h.palette.dur.Render(v.Duration().String())

	case slog.KindTime:
		return h.palette.tim.Render(v.Time().Format(time.RFC3339Nano))

	default:
		if v.Any() == nil {
			return h.palette.null.Render("null")
		}

		return h.palette.str.Render(v.String())
	}
}
