package sexp

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

func parseOne(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	if len(sexps) != 1 {
		t.Fatalf("Expected 1 sexp, got %d", len(sexps))
	}
	return sexps[0]
}

func TestFindNode(t *testing.T) {
	node := parseOne(t, `(symbol (lib_id "Device:R") (at 100 50 0))`)

	at, found := FindNode(node, "at")
	if !found {
		t.Fatal("Expected to find 'at' node")
	}
	if x, err := GetFloat(at, 1); err != nil || x != 100 {
		t.Errorf("Expected x=100, got %v (err %v)", x, err)
	}

	if _, found := FindNode(node, "missing"); found {
		t.Error("Expected 'missing' to not be found")
	}
}

func TestFindAllNodes(t *testing.T) {
	node := parseOne(t, `(root (pin 1) (pin 2) (wire 3))`)

	pins := FindAllNodes(node, "pin")
	if len(pins) != 2 {
		t.Errorf("Expected 2 pins, got %d", len(pins))
	}
}

func TestGetStringHandlesBothAtomKinds(t *testing.T) {
	node := parseOne(t, `(generator "eeschema" bare)`)

	quoted, err := GetString(node, 1)
	if err != nil || quoted != "eeschema" {
		t.Errorf("GetString(1) = %q, %v", quoted, err)
	}
	bare, err := GetString(node, 2)
	if err != nil || bare != "bare" {
		t.Errorf("GetString(2) = %q, %v", bare, err)
	}
}

func TestGetFloatAndInt(t *testing.T) {
	node := parseOne(t, `(at 12.7 -25.4 90)`)

	if v, err := GetFloat(node, 1); err != nil || v != 12.7 {
		t.Errorf("GetFloat(1) = %v, %v", v, err)
	}
	if v, err := GetFloat(node, 2); err != nil || v != -25.4 {
		t.Errorf("GetFloat(2) = %v, %v", v, err)
	}
	if v, err := GetInt(node, 3); err != nil || v != 90 {
		t.Errorf("GetInt(3) = %v, %v", v, err)
	}
	if _, err := GetFloat(node, 9); err == nil {
		t.Error("Expected error for out-of-range index")
	}
}

func TestHasSymbol(t *testing.T) {
	node := parseOne(t, `(pin passive line hide)`)

	if !HasSymbol(node, "hide") {
		t.Error("Expected hide symbol to be present")
	}
	if HasSymbol(node, "show") {
		t.Error("Expected show symbol to be absent")
	}
}

func TestGetNodeName(t *testing.T) {
	node := parseOne(t, `(wire (pts))`)

	name, err := GetNodeName(node)
	if err != nil || name != "wire" {
		t.Errorf("GetNodeName = %q, %v", name, err)
	}
}

func TestGetEffectsHideForms(t *testing.T) {
	bare := parseOne(t, `(effects (font (size 1.27 1.27)) hide)`)
	effects, err := GetEffects(bare)
	if err != nil || !effects.Hide {
		t.Errorf("Expected bare hide to parse, got %+v (err %v)", effects, err)
	}

	listForm := parseOne(t, `(effects (font (size 1.27 1.27)) (hide yes))`)
	effects, err = GetEffects(listForm)
	if err != nil || !effects.Hide {
		t.Errorf("Expected (hide yes) to parse, got %+v (err %v)", effects, err)
	}
}

func TestGetProperty(t *testing.T) {
	node := parseOne(t, `(property "Reference" "R1" (at 10 5 0))`)

	prop, err := GetProperty(node)
	if err != nil {
		t.Fatalf("GetProperty error: %v", err)
	}
	if prop.Key != "Reference" || prop.Value != "R1" {
		t.Errorf("Unexpected property: %+v", prop)
	}
	if prop.Position.X != 10 || prop.Position.Y != 5 {
		t.Errorf("Unexpected property position: %+v", prop.Position)
	}
}

func TestPositionTranslate(t *testing.T) {
	p := Position{X: 10, Y: 20}
	q := p.Translate(12.7, -5)
	if q.X != 22.7 || q.Y != 15 {
		t.Errorf("Translate = %+v", q)
	}
	// Original unchanged
	if p.X != 10 || p.Y != 20 {
		t.Errorf("Original mutated: %+v", p)
	}
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	if !bb.IsEmpty() {
		t.Fatal("New bounding box should be empty")
	}

	bb.Expand(Position{X: 10, Y: 20})
	bb.Expand(Position{X: 30, Y: 5})

	if bb.IsEmpty() {
		t.Fatal("Expanded bounding box should not be empty")
	}
	if bb.Width() != 20 || bb.Height() != 15 {
		t.Errorf("Size = %v x %v", bb.Width(), bb.Height())
	}
	if c := bb.Center(); c.X != 20 || c.Y != 12.5 {
		t.Errorf("Center = %+v", c)
	}
	if !bb.Contains(Position{X: 15, Y: 10}) {
		t.Error("Expected interior point to be contained")
	}
	if bb.Contains(Position{X: 31, Y: 10}) {
		t.Error("Expected exterior point not to be contained")
	}
}

func TestBoundingBoxExpandBox(t *testing.T) {
	a := NewBoundingBox()
	a.Expand(Position{X: 0, Y: 0})
	a.Expand(Position{X: 10, Y: 10})

	b := NewBoundingBox()
	b.Expand(Position{X: 5, Y: -5})
	b.Expand(Position{X: 25, Y: 5})

	a.ExpandBox(b)
	if a.Min.Y != -5 || a.Max.X != 25 {
		t.Errorf("Union = %+v", a)
	}

	// An empty box contributes nothing
	a.ExpandBox(NewBoundingBox())
	if a.Min.Y != -5 || a.Max.X != 25 || a.Max.Y != 10 {
		t.Errorf("Union changed by empty box: %+v", a)
	}
}
