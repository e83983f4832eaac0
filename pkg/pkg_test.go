package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("expected Version %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefix_TestBinary(t *testing.T) {
	// Test binaries are named pkg.test, which maps to the module name.
	if got := Prefix(); got != Name {
		t.Errorf("expected prefix %q, got %q", Name, got)
	}
}

func TestPaths(t *testing.T) {
	if filepath.Base(ConfigDir()) != Prefix() || filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("expected directories named %q, got %q and %q",
			Prefix(), ConfigDir(), CacheDir())
	}

	if got := ConfigPath("config.toml"); got != filepath.Join(ConfigDir(), "config.toml") {
		t.Errorf("unexpected config path %q", got)
	}

	if got := CachePath("history"); got != filepath.Join(CacheDir(), "history") {
		t.Errorf("unexpected cache path %q", got)
	}
}

func TestUserDir_Fallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	fail := func() (string, error) { return "", os.ErrNotExist }

	got := userDir(fail, ".cache")
	want := filepath.Join(os.Getenv("HOME"), ".cache", Prefix())

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
