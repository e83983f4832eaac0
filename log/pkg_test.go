package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_DefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithPretty(false), WithTimeLayout("none")))
	Config(WithLevel(LevelDebug), WithFormat(FormatText))

	tests := []struct {
		name  string
		log   func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, ""},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("message", slog.String("key", "value"))

			if tt.level == "" {
				if buf.Len() > 0 {
					t.Errorf("expected nothing below the configured level, got %q", buf.String())
				}

				return
			}

			want := "level=" + tt.level + " msg=message key=value\n"
			if buf.String() != want {
				t.Errorf("expected %q, got %q", want, buf.String())
			}
		})
	}

	buf.Reset()
	With(slog.String("component", "cli")).Info("tagged")

	if !strings.Contains(buf.String(), "component=cli") {
		t.Errorf("expected attribute from With, got %q", buf.String())
	}
}
