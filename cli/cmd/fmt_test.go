package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFmtNative(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.calc", "x=(1+2)*3\n((y)) ; a-(b-c)\n")

	ctx, stdout, stderr := testContext(t, "", nil)

	if err := (&Native{Source: []string{path}}).Run(ctx); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	want := "x = (1 + 2) * 3\ny\na - (b - c)\n"
	if got := stdout.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFmtNativeStdin(t *testing.T) {
	ctx, stdout, _ := testContext(t, "1*2+3", nil)

	if err := (&Native{Source: []string{stdinSource}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := stdout.String(); got != "1 * 2 + 3\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestFmtParseErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.calc", "1 + 2\n\n  3 +\n(4")

	ctx, stdout, stderr := testContext(t, "", nil)

	err := (&Native{Source: []string{path}}).Run(ctx)
	if !errors.Is(err, ErrStatementsFailed) {
		t.Fatalf("expected statement failures, got %v", err)
	}

	if got := stdout.String(); got != "1 + 2\n" {
		t.Errorf("expected valid statements formatted, got %q", got)
	}

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 2 ||
		!strings.HasPrefix(lines[0], path+":3:6: ") ||
		!strings.HasPrefix(lines[1], path+":4:3: ") {
		t.Errorf("unexpected diagnostics %q", lines)
	}
}

func TestFmtJSON(t *testing.T) {
	ctx, stdout, _ := testContext(t, "a = 1 + b", nil)

	if err := (&JSON{Source: []string{stdinSource}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var tree map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}

	if tree["kind"] != "Assign" || tree["name"] != "a" {
		t.Errorf("unexpected tree %v", tree)
	}
}

func TestFmtYAMLDocuments(t *testing.T) {
	ctx, stdout, _ := testContext(t, "1; x", nil)

	if err := (&YAML{Indent: 2, Source: []string{stdinSource}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	docs := strings.Split(stdout.String(), "---\n")
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %q", stdout)
	}

	var tree map[string]any
	if err := yaml.Unmarshal([]byte(docs[1]), &tree); err != nil {
		t.Fatal(err)
	}

	if tree["kind"] != "Variable" || tree["name"] != "x" {
		t.Errorf("unexpected tree %v", tree)
	}
}

func TestFmtAST(t *testing.T) {
	ctx, stdout, _ := testContext(t, "n = 2 * m", nil)

	if err := (&AST{Source: []string{stdinSource}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "Assign(n)\n  Binary("
	if got := stdout.String(); !strings.HasPrefix(got, want) || !strings.Contains(got, "    Variable(m)\n") {
		t.Errorf("unexpected tree %q", got)
	}
}

func TestFmtDelimiters(t *testing.T) {
	ctx, stdout, _ := testContext(t, "a=1,b=(a\n+2)", nil)
	ctx = WithDelimiters(ctx, ",")

	if err := (&Native{Source: []string{stdinSource}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := stdout.String(); got != "a = 1\nb = a + 2\n" {
		t.Errorf("unexpected output %q", got)
	}
}
