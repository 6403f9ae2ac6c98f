package filter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

// Parser parses block filter expressions
type Parser struct {
	parser *participle.Parser[Expression]
}

// NewParser creates a new filter expression parser
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Expression](
		participle.Lexer(FilterLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// ParseString parses a filter expression from a string
func (p *Parser) ParseString(input string) (*Expression, error) {
	expr, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return expr, nil
}

// Compile parses an expression and returns a predicate over definitions
func Compile(input string) (func(*block.Definition) bool, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}

	expr, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}

	// Validate once so bad field/function names surface at compile time,
	// not per block
	if err := validate(expr); err != nil {
		return nil, err
	}

	return func(def *block.Definition) bool {
		return evalExpression(expr, def)
	}, nil
}

func validate(expr *Expression) error {
	for _, and := range expr.Or {
		for _, term := range and.Terms {
			if err := validateTerm(term); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTerm(term *Term) error {
	switch {
	case term.Not != nil:
		return validateTerm(term.Not)
	case term.Sub != nil:
		return validate(term.Sub)
	case term.Cmp != nil:
		switch term.Cmp.Field {
		case "category", "slug", "name":
			return nil
		default:
			return fmt.Errorf("unknown field %q (want category, slug, or name)", term.Cmp.Field)
		}
	case term.Call != nil:
		switch term.Call.Func {
		case "provides", "requires", "tap", "pin":
			if term.Call.Arg == nil {
				return fmt.Errorf("%s() requires an argument", term.Call.Func)
			}
			return nil
		case "controller":
			return nil
		default:
			return fmt.Errorf("unknown predicate %q", term.Call.Func)
		}
	}
	return fmt.Errorf("empty term")
}

func evalExpression(expr *Expression, def *block.Definition) bool {
	for _, and := range expr.Or {
		if evalAnd(and, def) {
			return true
		}
	}
	return false
}

func evalAnd(and *AndExpr, def *block.Definition) bool {
	for _, term := range and.Terms {
		if !evalTerm(term, def) {
			return false
		}
	}
	return true
}

func evalTerm(term *Term, def *block.Definition) bool {
	switch {
	case term.Not != nil:
		return !evalTerm(term.Not, def)
	case term.Sub != nil:
		return evalExpression(term.Sub, def)
	case term.Cmp != nil:
		return evalComparison(term.Cmp, def)
	case term.Call != nil:
		return evalCall(term.Call, def)
	}
	return false
}

func evalComparison(cmp *Comparison, def *block.Definition) bool {
	var field string
	switch cmp.Field {
	case "category":
		field = string(def.Category)
	case "slug":
		field = def.Slug
	case "name":
		field = def.Name
	}

	match := strings.EqualFold(field, cmp.Value.Value)
	if cmp.Op == "!=" {
		return !match
	}
	return match
}

func evalCall(call *Call, def *block.Definition) bool {
	arg := ""
	if call.Arg != nil {
		arg = call.Arg.Value
	}

	switch call.Func {
	case "provides":
		for _, rail := range def.Bus.Provides {
			if strings.EqualFold(rail.Rail, arg) {
				return true
			}
		}
	case "requires":
		for _, rail := range def.Bus.Requires {
			if strings.EqualFold(rail.Rail, arg) {
				return true
			}
		}
	case "tap":
		for _, tap := range def.Bus.Taps {
			if strings.EqualFold(tap.Net, arg) {
				return true
			}
		}
	case "pin":
		for _, pin := range def.Bus.Pins {
			if strings.EqualFold(pin, arg) {
				return true
			}
		}
	case "controller":
		return def.IsController()
	}
	return false
}
