package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// testContext returns a context carrying a kong application that writes to
// the returned buffers and reads stdin from the given text.
func testContext(
	t *testing.T,
	stdin string,
	vars kong.Vars,
) (ctx context.Context, stdout, stderr *bytes.Buffer) {
	t.Helper()

	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)

	parser, err := kong.New(&struct{}{}, kong.Writers(stdout, stderr), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx = WithContext(t.Context(), ktx)
	ctx = WithStdin(ctx, strings.NewReader(stdin))

	return ctx, stdout, stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestSourceFilesRoundTrip(t *testing.T) {
	if got := sourceFilesFrom(t.Context()); got != nil {
		t.Errorf("expected no source files, got %v", got)
	}

	ctx := WithSourceFiles(t.Context(), []string{"a", "b"})
	if got := sourceFilesFrom(ctx); len(got) != 2 {
		t.Errorf("expected 2 source files, got %v", got)
	}
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "x = 1")
	b := writeFile(t, dir, "b.calc", "y = 2")

	link := filepath.Join(dir, "link.calc")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	ctx, _, _ := testContext(t, "z = 3", nil)

	var names, texts []string

	for src, err := range readSources(ctx, []string{a, "-", link, b, "-", a}) {
		if err != nil {
			t.Fatalf("%s: %v", src.Name, err)
		}

		names = append(names, src.Name)
		texts = append(texts, src.Text)
	}

	if got := strings.Join(names, ","); got != a+","+b+",-" {
		t.Errorf("expected each file once with stdin last, got %s", got)
	}

	if got := strings.Join(texts, ";"); got != "x = 1;y = 2;z = 3" {
		t.Errorf("unexpected texts %q", got)
	}
}

func TestReadSourcesMissing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "1")

	ctx, _, _ := testContext(t, "", nil)

	var (
		read   []string
		failed []string
	)

	for src, err := range readSources(ctx, []string{filepath.Join(dir, "missing"), a}) {
		if err != nil {
			failed = append(failed, src.Name)

			continue
		}

		read = append(read, src.Name)
	}

	if len(failed) != 1 || len(read) != 1 || read[0] != a {
		t.Errorf("expected one failure then %s, got failed=%v read=%v", a, failed, read)
	}
}

func TestReadSourcesStop(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "1")
	b := writeFile(t, dir, "b.calc", "2")

	ctx, _, _ := testContext(t, "", nil)

	n := 0
	for range readSources(ctx, []string{a, b}) {
		n++

		break
	}

	if n != 1 {
		t.Errorf("expected iteration to stop after one source, got %d", n)
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrWriteConfig.With().Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) {
		t.Error("expected derived error to match its sentinel")
	}

	if !errors.Is(err, ErrFileExists) {
		t.Error("expected wrapped sentinel to match")
	}

	if errors.Is(err, ErrReadSource) {
		t.Error("expected unrelated sentinel not to match")
	}

	if got := err.Error(); got != "write configuration file: file exists (use --force to overwrite)" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestInteractive(t *testing.T) {
	if interactive(strings.NewReader("")) {
		t.Error("expected a reader not to be interactive")
	}

	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Skip(err)
	}
	defer f.Close()

	// The null device is a character device.
	if !interactive(f) {
		t.Error("expected the null device to report as a character device")
	}
}
