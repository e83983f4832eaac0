package session

import (
	"iter"
	"strings"

	"github.com/ardnew/calc/lang"
)

// DefaultDelimiters separate statements when no others are configured.
const DefaultDelimiters = ";\n"

// space matches the whitespace skipped by the lexer.
const space = " \t\n\r\f"

// Statement is one delimited, trimmed, non-blank piece of source.
type Statement struct {
	// Pos locates the first byte of Source within the full input.
	Pos    lang.Position
	Source string
}

// Locate translates a position relative to the statement into a position
// within the full input. Invalid positions are returned unchanged.
func (s Statement) Locate(rel lang.Position) lang.Position {
	if !rel.IsValid() {
		return rel
	}

	abs := lang.Position{
		Offset: s.Pos.Offset + rel.Offset,
		Line:   s.Pos.Line + rel.Line - 1,
		Column: rel.Column,
	}

	if rel.Line == 1 {
		abs.Column = s.Pos.Column + rel.Column - 1
	}

	return abs
}

// Split returns an iterator over the statements of src separated by any of
// the bytes in delims. Surrounding whitespace is trimmed from each statement
// and blank statements are skipped. If delims is empty, [DefaultDelimiters]
// is used.
func Split(src, delims string) iter.Seq[Statement] {
	if delims == "" {
		delims = DefaultDelimiters
	}

	return func(yield func(Statement) bool) {
		pos := lang.Position{Line: 1, Column: 1}

		for len(src) > 0 {
			end := strings.IndexAny(src, delims)
			if end < 0 {
				end = len(src)
			}

			raw := src[:end]
			body := strings.TrimLeft(raw, space)
			head := advance(pos, raw[:len(raw)-len(body)])

			if body = strings.TrimRight(body, space); body != "" {
				if !yield(Statement{Pos: head, Source: body}) {
					return
				}
			}

			if end < len(src) {
				end++ // consume the delimiter
			}

			pos = advance(pos, src[:end])
			src = src[end:]
		}
	}
}

// advance returns the position following text.
func advance(p lang.Position, text string) lang.Position {
	p.Offset += len(text)

	if n := strings.Count(text, "\n"); n > 0 {
		p.Line += n
		p.Column = len(text) - strings.LastIndexByte(text, '\n')
	} else {
		p.Column += len(text)
	}

	return p
}
