package lang

import (
	"context"
	"io"
	"log/slog"
)

// ParseReader parses a single expression read from r.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Expr, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, string(data), opts...)
}

// ParseString parses a single expression using the default options.
func ParseString(src string) (Expr, error) {
	return Parse(context.Background(), src)
}

// Parse parses src as a single expression and returns its syntax tree.
//
// The first error aborts parsing; no partial tree is returned. Unless
// [WithAllowTrailing] is given, the entire input must form one expression.
func Parse(ctx context.Context, src string, opts ...Option) (Expr, error) {
	p := &parser{
		lex:  NewLexer(src),
		opts: makeOptions(opts...),
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		p.opts.logger.TraceContext(ctx, "parse failed",
			slog.Any("error", err))

		return nil, err
	}

	if p.cur.Kind != KindEOF && !p.opts.allowTrailing {
		return nil, ErrTrailingInput.At(p.cur.Pos).About(p.cur.String())
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		exprAttr(expr),
		slog.Int("tokens", p.count))

	return expr, nil
}

// parser holds the parser state: the lexer and a single token of lookahead.
type parser struct {
	lex   *Lexer
	cur   Token
	depth int
	count int
	opts  options
}

// parseExpression parses: assignment.
func (p *parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment parses: additive ( '=' assignment )?.
func (p *parser) parseAssignment() (Expr, error) {
	left, err := p.parseBinary(precAdditive)
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != KindAssign {
		return left, nil
	}

	target, ok := left.(*Variable)
	if !ok {
		return nil, ErrInvalidAssignTarget.At(left.Position()).
			About(left.String())
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	// Recursing into assignment rather than additive makes '=' right
	// associative: a = b = 1 is a = (b = 1).
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	return &Assign{
		Name:  target.Name,
		Value: value,
		Pos:   target.Pos,
	}, nil
}

// parseBinary parses a left-associative chain of operators that bind with
// strength prec, whose operands bind more tightly:
//
//	additive       := multiplicative ( ('+'|'-') multiplicative )*
//	multiplicative := factor ( ('*'|'/') factor )*
func (p *parser) parseBinary(prec int) (Expr, error) {
	if prec >= precFactor {
		return p.parseFactor()
	}

	left, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryOps[p.cur.Kind]
		if !ok || op.precedence() != prec {
			return left, nil
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{
			Left:  left,
			Op:    op,
			Right: right,
			Pos:   left.Position(),
		}
	}
}

// parseFactor parses: Number | Identifier | '(' expression ')'.
func (p *parser) parseFactor() (Expr, error) {
	tok := p.cur

	switch tok.Kind {
	case KindNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &Literal{Value: tok.Value, Pos: tok.Pos}, nil

	case KindIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &Variable{Name: tok.Text, Pos: tok.Pos}, nil

	case KindLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.cur.Kind != KindRParen {
			return nil, ErrExpectedCloseParen.At(p.cur.Pos).
				About(p.cur.String()).
				With(slog.String("open", tok.Pos.String()))
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		return expr, nil

	case KindEOF:
		return nil, ErrUnexpectedEOF.At(tok.Pos)

	default:
		return nil, ErrUnexpectedToken.At(tok.Pos).About(tok.String())
	}
}

// advance replaces the lookahead with the next token from the lexer.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	if tok.Kind != KindEOF {
		p.count++
	}

	p.cur = tok

	return nil
}

func (p *parser) enter() error {
	p.depth++

	if p.opts.maxDepth > 0 && p.depth > p.opts.maxDepth {
		return ErrMaxDepthExceeded.At(p.cur.Pos).
			With(slog.Int("max_depth", p.opts.maxDepth))
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}
