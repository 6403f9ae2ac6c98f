// Package filter implements a small boolean expression language for
// selecting block definitions, used by the CLI:
//
//	category == "sensor" && provides("3V3")
//	!pin("GPIO4") || tap("BUS_SDA")
//
// Fields: category, slug, name. Predicates: provides(rail), requires(rail),
// tap(net), pin(name), controller().
package filter

// Expression is the top-level filter expression (OR of AND groups)
type Expression struct {
	Or []*AndExpr `parser:"@@ ( OpOr @@ )*"`
}

// AndExpr is a conjunction of terms
type AndExpr struct {
	Terms []*Term `parser:"@@ ( OpAnd @@ )*"`
}

// Term is a single negatable predicate or a parenthesized sub-expression
type Term struct {
	Not  *Term       `parser:"  Bang @@"`
	Sub  *Expression `parser:"| LParen @@ RParen"`
	Cmp  *Comparison `parser:"| @@"`
	Call *Call       `parser:"| @@"`
}

// Comparison compares a definition field against a string literal
// Example: category == "sensor"
type Comparison struct {
	Field string  `parser:"@Ident"`
	Op    string  `parser:"@( OpEq | OpNe )"`
	Value *String `parser:"@@"`
}

// Call invokes a predicate function with an optional string argument
// Example: provides("3V3"), controller()
type Call struct {
	Func string  `parser:"@Ident LParen"`
	Arg  *String `parser:"@@? RParen"`
}

// String is a quoted string literal
type String struct {
	Value string `parser:"@String"`
}
