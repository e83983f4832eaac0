package lang

import "strconv"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// KindEOF marks the end of the token stream.
	KindEOF Kind = iota

	KindPlus   // +
	KindMinus  // -
	KindStar   // *
	KindSlash  // /
	KindLParen // (
	KindRParen // )
	KindAssign // =

	// KindNumber is a run of decimal digits.
	KindNumber

	// KindIdentifier is a letter or underscore followed by letters, digits,
	// or underscores.
	KindIdentifier
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"

	case KindPlus:
		return "Plus"

	case KindMinus:
		return "Minus"

	case KindStar:
		return "Star"

	case KindSlash:
		return "Slash"

	case KindLParen:
		return "LParen"

	case KindRParen:
		return "RParen"

	case KindAssign:
		return "Assign"

	case KindNumber:
		return "Number"

	case KindIdentifier:
		return "Identifier"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// punctuation maps single-character tokens to their kind.
var punctuation = [...]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'/': KindSlash,
	'(': KindLParen,
	')': KindRParen,
	'=': KindAssign,
}

// Token is a single lexical unit.
type Token struct {
	Kind  Kind
	Text  string // Source lexeme; empty for KindEOF
	Value int64  // Numeric value (KindNumber only)
	Pos   Position
}

// String returns a human-readable description of the token, suitable for
// diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return "end of input"

	case KindNumber, KindIdentifier:
		return t.Kind.String() + "(" + t.Text + ")"

	default:
		return strconv.Quote(t.Text)
	}
}
