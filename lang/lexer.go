package lang

import (
	"iter"
	"math"
	"strconv"
	"unicode/utf8"
)

// Lexer produces tokens from source text on demand.
// It holds only a cursor into the input, so a Lexer is restarted by creating
// a new one over the same source.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		input: src,
		pos:   0,
		line:  1,
		col:   1,
	}
}

// Next returns the next token in the input.
// Once the input is exhausted, Next returns a KindEOF token on every call.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.position()

	if l.eof() {
		return Token{Kind: KindEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]

	switch {
	case int(ch) < len(punctuation) && punctuation[ch] != KindEOF:
		l.advance()

		return Token{
			Kind: punctuation[ch],
			Text: l.input[start.Offset:l.pos],
			Pos:  start,
		}, nil

	case isDigit(ch):
		return l.scanNumber(start)

	case isIdentifierStart(ch):
		for !l.eof() && isIdentifierContinue(l.input[l.pos]) {
			l.advance()
		}

		return Token{
			Kind: KindIdentifier,
			Text: l.input[start.Offset:l.pos],
			Pos:  start,
		}, nil

	default:
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

		return Token{}, ErrUnexpectedChar.At(start).About(strconv.QuoteRune(r))
	}
}

// All returns an iterator over the remaining tokens.
// Iteration ends at the end of input (the KindEOF token is not yielded) or
// after the first error, which is yielded with a zero Token.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if tok.Kind == KindEOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize returns every token in src, excluding the final KindEOF.
func Tokenize(src string) ([]Token, error) {
	var toks []Token

	for tok, err := range NewLexer(src).All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

func (l *Lexer) scanNumber(start Position) (Token, error) {
	var (
		value    int64
		overflow bool
	)

	for !l.eof() && isDigit(l.input[l.pos]) {
		d := int64(l.input[l.pos] - '0')
		if value > (math.MaxInt64-d)/10 {
			overflow = true
		} else if !overflow {
			value = value*10 + d
		}

		l.advance()
	}

	text := l.input[start.Offset:l.pos]

	// The entire numeral is consumed even when it overflows so the error
	// reports the complete lexeme.
	if overflow {
		return Token{}, ErrNumberRange.At(start).About(text)
	}

	return Token{
		Kind:  KindNumber,
		Text:  text,
		Value: value,
		Pos:   start,
	}, nil
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && isSpace(l.input[l.pos]) {
		l.advance()
	}
}

// advance moves the cursor past one byte. Only ASCII bytes are ever consumed;
// any other byte is rejected before the cursor moves.
func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// IsIdentifier reports whether name is a well-formed variable name, i.e.,
// whether it would be read back as a single identifier token.
func IsIdentifier(name string) bool {
	if name == "" || !isIdentifierStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isIdentifierContinue(name[i]) {
			return false
		}
	}

	return true
}

// Character classification

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentifierStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentifierContinue(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}
