package kicadsexp

import (
	"fmt"
	"io"
)

// parser builds S-expression trees from a token stream
type parser struct {
	lexer   *lexer
	current token
}

func newParser(r io.Reader) *parser {
	return &parser{lexer: newLexer(r)}
}

// parseAll parses every top-level S-expression until EOF
func (p *parser) parseAll() ([]Sexp, error) {
	var result []Sexp

	tok, err := p.lexer.next()
	if err != nil {
		return nil, err
	}
	p.current = tok

	for p.current.typ != tokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		tok, err := p.lexer.next()
		if err != nil {
			return nil, err
		}
		p.current = tok
	}

	return result, nil
}

// parseExpr parses a single S-expression
func (p *parser) parseExpr() (Sexp, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()

	case tokenSymbol:
		return Symbol(p.current.value), nil

	case tokenString:
		return Str(p.current.value), nil

	case tokenRightParen:
		return nil, fmt.Errorf("unexpected ')'")

	case tokenEOF:
		return nil, fmt.Errorf("unexpected EOF")

	default:
		return nil, fmt.Errorf("unexpected token type: %v", p.current.typ)
	}
}

// parseList parses a parenthesized list
func (p *parser) parseList() (Sexp, error) {
	if p.current.typ != tokenLeftParen {
		return nil, fmt.Errorf("expected '(', got %v", p.current.typ)
	}

	var elements []Sexp

	for {
		tok, err := p.lexer.next()
		if err != nil {
			return nil, err
		}
		p.current = tok

		if p.current.typ == tokenRightParen {
			break
		}

		if p.current.typ == tokenEOF {
			return nil, fmt.Errorf("unexpected EOF in list")
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}

	return &List{elements: elements}, nil
}
