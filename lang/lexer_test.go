package lang

import (
	"errors"
	"testing"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: " \t\r\n\f ",
			want:  nil,
		},
		{
			name:  "punctuation",
			input: "+-*/()=",
			want: []Kind{
				KindPlus, KindMinus, KindStar, KindSlash,
				KindLParen, KindRParen, KindAssign,
			},
		},
		{
			name:  "assignment",
			input: "x = 42",
			want:  []Kind{KindIdentifier, KindAssign, KindNumber},
		},
		{
			name:  "no spaces",
			input: "a1*(b_2+3)",
			want: []Kind{
				KindIdentifier, KindStar, KindLParen, KindIdentifier,
				KindPlus, KindNumber, KindRParen,
			},
		},
		{
			name:  "digits then letters split",
			input: "12ab",
			want:  []Kind{KindNumber, KindIdentifier},
		},
		{
			name:  "crlf",
			input: "1\r\n+\r\n2",
			want:  []Kind{KindNumber, KindPlus, KindNumber},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			if len(toks) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(toks), toks)
			}

			for i, tok := range toks {
				if tok.Kind != tt.want[i] {
					t.Errorf("token %d: expected %v, got %v", i, tt.want[i], tok.Kind)
				}
			}
		})
	}
}

func TestLexer_Values(t *testing.T) {
	toks, err := Tokenize("007 foo_Bar 9223372036854775807")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}

	if toks[0].Value != 7 || toks[0].Text != "007" {
		t.Errorf("expected Number(007) = 7, got %q = %d", toks[0].Text, toks[0].Value)
	}

	if toks[1].Text != "foo_Bar" {
		t.Errorf("expected identifier foo_Bar, got %q", toks[1].Text)
	}

	if toks[2].Value != 9223372036854775807 {
		t.Errorf("expected max int64, got %d", toks[2].Value)
	}
}

func TestLexer_Positions(t *testing.T) {
	toks, err := Tokenize("x =\n  (y + 10)")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 2, Line: 1, Column: 3},
		{Offset: 6, Line: 2, Column: 3},
		{Offset: 7, Line: 2, Column: 4},
		{Offset: 9, Line: 2, Column: 6},
		{Offset: 11, Line: 2, Column: 8},
		{Offset: 13, Line: 2, Column: 10},
	}

	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}

	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%v): expected position %+v, got %+v", i, tok, want[i], tok.Pos)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantPos string
		subject string
	}{
		{
			name:    "unexpected character",
			input:   "1 + $",
			wantErr: ErrUnexpectedChar,
			wantPos: "1:5",
			subject: "'$'",
		},
		{
			name:    "non-ascii",
			input:   "x\n é",
			wantErr: ErrUnexpectedChar,
			wantPos: "2:2",
			subject: "'é'",
		},
		{
			name:    "number out of range",
			input:   "9223372036854775808",
			wantErr: ErrNumberRange,
			wantPos: "1:1",
			subject: "9223372036854775808",
		},
		{
			name:    "huge number",
			input:   "1 + 123456789012345678901234567890",
			wantErr: ErrNumberRange,
			wantPos: "1:5",
			subject: "123456789012345678901234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if got := e.Position().String(); got != tt.wantPos {
				t.Errorf("expected position %s, got %s", tt.wantPos, got)
			}

			if e.Subject() != tt.subject {
				t.Errorf("expected subject %s, got %s", tt.subject, e.Subject())
			}

			if !IsParseError(err) {
				t.Error("expected lexical error to classify as a parse error")
			}
		})
	}
}

func TestLexer_EOFRepeats(t *testing.T) {
	l := NewLexer("7")

	if tok, err := l.Next(); err != nil || tok.Kind != KindNumber {
		t.Fatalf("expected number, got %v (%v)", tok, err)
	}

	for range 3 {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind != KindEOF {
			t.Fatalf("expected EOF, got %v", tok)
		}
	}
}

func TestLexer_AllStopsEarly(t *testing.T) {
	count := 0

	for range NewLexer("a b c d").All() {
		count++
		if count == 2 {
			break
		}
	}

	if count != 2 {
		t.Errorf("expected iteration to stop after 2 tokens, got %d", count)
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: KindEOF}, "end of input"},
		{Token{Kind: KindNumber, Text: "12", Value: 12}, "Number(12)"},
		{Token{Kind: KindIdentifier, Text: "x"}, "Identifier(x)"},
		{Token{Kind: KindRParen, Text: ")"}, `")"`},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("expected Kind(99), got %s", got)
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"_", true},
		{"rate_2", true},
		{"MaxValue", true},
		{"", false},
		{"1x", false},
		{"a b", false},
		{"a-b", false},
		{"é", false},
		{"x=", false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.name); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, expected %v", tt.name, got, tt.want)
		}

		if !tt.want {
			continue
		}

		toks, err := Tokenize(tt.name)
		if err != nil || len(toks) != 1 || toks[0].Kind != KindIdentifier {
			t.Errorf("expected %q to lex as one identifier, got %v, %v", tt.name, toks, err)
		}
	}
}
