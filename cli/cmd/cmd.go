package cmd

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/session"
)

type (
	// contextKey is used to store a [kong.Context] value in [context.Context].
	contextKey    struct{}
	sourcesKey    struct{}
	stdinKey      struct{}
	langOptsKey   struct{}
	delimitersKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer for command output: the kong application's
// Stdout if available, else os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer for diagnostics: the kong application's Stderr if
// available, else os.Stderr.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// WithStdin returns a new context.Context whose standard input source is r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithLangOptions returns a new context.Context carrying options applied to
// every parse and evaluation a command performs.
func WithLangOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, langOptsKey{}, opts)
}

func langOptionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(langOptsKey{}).([]lang.Option)

	return opts
}

// WithDelimiters returns a new context.Context carrying the bytes that
// separate statements. An empty string selects [session.DefaultDelimiters].
func WithDelimiters(ctx context.Context, delims string) context.Context {
	return context.WithValue(ctx, delimitersKey{}, delims)
}

func delimitersFrom(ctx context.Context) string {
	delims, _ := ctx.Value(delimitersKey{}).(string)

	return delims
}

// newSession creates a session using the language options and delimiters
// stored in ctx and the default logger, followed by extra.
func newSession(ctx context.Context, extra ...session.Option) *session.Session {
	opts := []session.Option{
		session.WithLangOptions(langOptionsFrom(ctx)...),
		session.WithDelimiters(delimitersFrom(ctx)),
		session.WithLogger(log.Default()),
	}

	return session.New(append(opts, extra...)...)
}

// validateDefines reports the first name in defs that source text could not
// refer to.
func validateDefines(defs map[string]int64) error {
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		if !lang.IsIdentifier(name) {
			return ErrInvalidDefine.With(slog.String("name", name)).
				Wrap(fmt.Errorf("%w: %q", session.ErrInvalidName, name))
		}
	}

	return nil
}

// WithSourceFiles returns a new context.Context containing the given source
// file paths. Paths are opened lazily by the command that reads them.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourcesKey{}).([]string)

	return s
}

// Source is the complete text of one input.
type Source struct {
	// Name is the file path, or "-" for standard input.
	Name string
	Text string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources returns an iterator over the contents of the given paths.
//
// Paths naming the same file, whether through symlinks or relative and
// absolute spellings, are read once. All occurrences of "-", and any path that
// refers to the process's standard input, collapse into a single stdin
// source read after all regular files. Unreadable paths yield an error and
// iteration continues.
func readSources(ctx context.Context, paths []string) iter.Seq2[Source, error] {
	return func(yield func(Source, error) bool) {
		stdin := stdinFrom(ctx)
		inKey, inKeyed := fileKeyOf(stdin)

		var (
			seen     = make(map[fileKey]struct{})
			hasStdin bool
		)

		for _, path := range paths {
			if path == stdinSource {
				hasStdin = true

				continue
			}

			key, keyed, err := statKey(path)
			if err != nil {
				if !yield(Source{Name: path}, err) {
					return
				}

				continue
			}

			if keyed {
				if inKeyed && key == inKey {
					hasStdin = true

					continue
				}

				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
			}

			text, err := os.ReadFile(path)
			if !yield(Source{Name: path, Text: string(text)}, err) {
				return
			}
		}

		if hasStdin {
			text, err := io.ReadAll(stdin)
			yield(Source{Name: stdinSource, Text: string(text)}, err)
		}
	}
}

// statKey resolves path through symlinks and returns its device/inode key.
// The key is only meaningful if keyed is true.
func statKey(path string) (key fileKey, keyed bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return key, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return key, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return key, false, err
	}

	key, keyed = makeFileKey(info)

	return key, keyed, nil
}

// fileKeyOf returns the key of r if it is an *os.File.
func fileKeyOf(r io.Reader) (fileKey, bool) {
	f, ok := r.(*os.File)
	if !ok || f == nil {
		return fileKey{}, false
	}

	info, err := f.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
