package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format returns e in canonical source form.
//
// Operators are separated from their operands by single spaces and
// parentheses appear only where precedence or associativity requires them,
// so parsing the result yields a tree equal to e. Negative literals have no
// source spelling and are written as-is.
func Format(e Expr) string {
	var b strings.Builder

	formatNode(&b, e, precAssign)

	return b.String()
}

// WriteNative writes the canonical source of e followed by a newline.
func WriteNative(_ context.Context, w io.Writer, e Expr) error {
	_, err := fmt.Fprintln(w, Format(e))

	return err
}

// WriteJSON writes e as JSON. An indent greater than zero pretty-prints the
// document with that many spaces per level.
func WriteJSON(_ context.Context, w io.Writer, e Expr, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMap(e), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMap(e))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// WriteYAML writes e as YAML. An indent of zero selects flow style.
func WriteYAML(ctx context.Context, w io.Writer, e Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMap(e), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// formatNode writes e, parenthesized if it binds more loosely than outer.
func formatNode(b *strings.Builder, e Expr, outer int) {
	switch x := e.(type) {
	case *Literal:
		b.WriteString(strconv.FormatInt(x.Value, 10))

	case *Variable:
		b.WriteString(x.Name)

	case *Assign:
		wrap := outer > precAssign
		if wrap {
			b.WriteByte('(')
		}

		b.WriteString(x.Name)
		b.WriteString(" = ")
		formatNode(b, x.Value, precAssign)

		if wrap {
			b.WriteByte(')')
		}

	case *Binary:
		prec := x.Op.precedence()

		wrap := prec < outer
		if wrap {
			b.WriteByte('(')
		}

		// Folding is left-associative, so a right operand of equal
		// precedence needs parentheses to keep its grouping.
		formatNode(b, x.Left, prec)
		b.WriteByte(' ')
		b.WriteString(x.Op.Symbol())
		b.WriteByte(' ')
		formatNode(b, x.Right, prec+1)

		if wrap {
			b.WriteByte(')')
		}

	default:
		b.WriteString("<nil>")
	}
}
