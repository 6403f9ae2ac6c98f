package filter

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// FilterLexer defines the lexical structure for block filter expressions.
// The language is small: identifiers, quoted strings, comparison and
// boolean operators, and function-call parentheses.
var FilterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Operators
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpAnd", Pattern: `&&`},
	{Name: "OpOr", Pattern: `\|\|`},
	{Name: "Bang", Pattern: `!`},

	// Punctuation
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	// Literals
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Identifiers (field names and predicate functions)
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
})
