package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initContext parses args against a small application whose flags resemble
// the global calc flags, with the config directory set to dir.
func initContext(t *testing.T, dir string, args ...string) context.Context {
	t.Helper()

	var cli struct {
		LogLevel   string   `default:"info"`
		LogCaller  bool     `default:"false"`
		LangDepth  int      `default:"256"`
		Source     []string ``
		PprofMode  string   `default:""`
		EmptyValue string   ``
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: dir})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	decode := map[string]func([]byte, any) error{
		"json": json.Unmarshal,
		"toml": toml.Unmarshal,
		"yaml": yaml.Unmarshal,
	}

	for _, format := range ConfigFormats() {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "calc")
			ctx := initContext(t, dir, "--log-level=debug", "--log-caller", "--source=a", "--source=b")

			if err := (&Init{Format: format}).Run(ctx); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(filepath.Join(dir, ConfigFile(format)))
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := decode[format](data, &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, data)
			}

			if got["log_level"] != "debug" || got["log_caller"] != true {
				t.Errorf("unexpected values %v", got)
			}

			if _, ok := got["lang_depth"]; !ok {
				t.Errorf("expected numeric flag, got %v", got)
			}

			if src, ok := got["source"].([]any); !ok || len(src) != 2 {
				t.Errorf("expected source list, got %v", got["source"])
			}

			for _, key := range []string{"help", "pprof_mode", "empty_value"} {
				if _, ok := got[key]; ok {
					t.Errorf("expected %s to be omitted", key)
				}
			}
		})
	}
}

func TestInitForce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile("toml"))

	if err := os.WriteFile(path, []byte("existing = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := initContext(t, dir)

	err := (&Init{Format: "toml"}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("expected existing file error, got %v", err)
	}

	if err := (&Init{Format: "toml", Force: true}).Run(ctx); err != nil {
		t.Fatalf("expected forced overwrite, got %v", err)
	}

	var got map[string]any
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatal(err)
	}

	if _, ok := got["existing"]; ok {
		t.Error("expected file to be overwritten")
	}
}

func TestConfigKey(t *testing.T) {
	if got := ConfigKey("log-time-layout"); got != "log_time_layout" {
		t.Errorf("unexpected key %q", got)
	}
}
