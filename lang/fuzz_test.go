package lang

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/expr-lang/expr"
)

// FuzzParse tests that the parser never panics and that every tree it
// accepts survives a trip through the formatter.
func FuzzParse(f *testing.F) {
	f.Add("1 + 2 * 3")
	f.Add("(a = b = 4) - c / 2")
	f.Add("((x))")
	f.Add("1 + 2 = 3")
	f.Add("(1 + 2")
	f.Add("9223372036854775808")
	f.Add("x\r\n*\ty")
	f.Add("#")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tree, err := Parse(t.Context(), input, WithMaxDepth(64))
		if err != nil {
			if !IsParseError(err) {
				t.Fatalf("expected parse error class for %q, got %v", input, err)
			}

			return
		}

		formatted := Format(tree)

		again, err := Parse(t.Context(), formatted)
		if err != nil {
			t.Fatalf("formatted %q as %q which fails to parse: %v", input, formatted, err)
		}

		if !Equal(tree, again) {
			t.Fatalf("round trip of %q changed tree: %s became %s", input, tree, again)
		}
	})
}

// FuzzEvalDifferential generates expressions over + - * from the fuzz input
// and compares the evaluator against the expr-lang implementation.
func FuzzEvalDifferential(f *testing.F) {
	f.Add([]byte{0})
	f.Add([]byte{1, 2, 3, 4, 5, 6})
	f.Add([]byte{7, 7, 7, 7, 7, 7, 7, 7, 7})
	f.Add([]byte("differential"))

	f.Fuzz(func(t *testing.T, data []byte) {
		vars := map[string]any{"x": 17, "y": -4}

		src := (&generator{data: data}).expr(0)

		want, err := expr.Eval(src, vars)
		if err != nil {
			t.Skipf("oracle rejected %q: %v", src, err)
		}

		wantInt, ok := want.(int)
		if !ok {
			t.Skipf("oracle returned %T for %q", want, src)
		}

		env := NewEnvironment()
		env.Set("x", 17)
		env.Set("y", -4)

		got, err := Run(t.Context(), src, env)
		if err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}

		if got != int64(wantInt) {
			t.Fatalf("eval %q: expected %d, got %d", src, wantInt, got)
		}
	})
}

// generator derives a bounded expression from a byte string. Depth and
// literal range are small enough that no intermediate result overflows.
type generator struct {
	data []byte
	pos  int
}

func (g *generator) next() byte {
	if g.pos >= len(g.data) {
		return 0
	}

	b := g.data[g.pos]
	g.pos++

	return b
}

func (g *generator) expr(depth int) string {
	b := g.next()

	if depth >= 3 || b%4 == 0 {
		switch g.next() % 3 {
		case 0:
			return "x"

		case 1:
			return "y"

		default:
			return strconv.Itoa(int(g.next() % 100))
		}
	}

	op := [...]string{"+", "-", "*"}[b%3]

	var sb strings.Builder

	sb.WriteByte('(')
	sb.WriteString(g.expr(depth + 1))
	sb.WriteString(" " + op + " ")
	sb.WriteString(g.expr(depth + 1))
	sb.WriteByte(')')

	return sb.String()
}
