package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child node with the given key (first symbol).
// Example: FindNode(node, "at") finds (at 100 50) in a list.
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	if s == nil || s.IsLeaf() {
		return nil, false
	}

	for _, item := range SexpToSlice(s) {
		if item == nil {
			continue
		}

		if item.IsLeaf() {
			if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == key {
				return item, true
			}
			continue
		}

		if sym, ok := item.Head().(kicadsexp.Symbol); ok && string(sym) == key {
			return item, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child list nodes with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	if s == nil || s.IsLeaf() {
		return results
	}

	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}

		if sym, ok := item.Head().(kicadsexp.Symbol); ok && string(sym) == key {
			results = append(results, item)
		}
	}

	return results
}

// SexpToSlice converts an s-expression list to a Go slice
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}

	if l, ok := s.(*kicadsexp.List); ok {
		items := make([]kicadsexp.Sexp, 0, l.Len())
		for i := 0; i < l.Len(); i++ {
			items = append(items, l.Get(i))
		}
		return items
	}

	// Generic fallback over Head/Tail
	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() {
		if head := s.Head(); head != nil {
			items = append(items, head)
		}
		s = s.Tail()
	}
	return items
}

// GetListItems returns all items in a list after the leading key.
// Example: GetListItems((pins GPIO4 GPIO5)) returns [GPIO4, GPIO5].
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// Typed value extraction helpers

// GetString extracts an atom's text at the given index in a list.
// Index 0 is the key, 1 is the first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if text, ok := kicadsexp.Text(items[index]); ok {
		return text, nil
	}

	return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
}

// GetQuotedString extracts a string value at the given index. Both quoted
// strings and bare symbols are accepted, since KiCad quotes inconsistently
// across versions.
func GetQuotedString(s kicadsexp.Sexp, index int) (string, error) {
	return GetString(s, index)
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	if s == nil || s.IsLeaf() {
		return false
	}

	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}

	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}

	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// Domain-specific extraction helpers

// GetAngle extracts an angle value in degrees at the given index
func GetAngle(s kicadsexp.Sexp, index int) (Angle, error) {
	deg, err := GetFloat(s, index)
	if err != nil {
		return 0, err
	}
	return Angle(deg), nil
}

// GetUUID extracts a UUID from a (uuid "...") node
func GetUUID(s kicadsexp.Sexp) (UUID, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected (uuid ...) list")
	}

	key, err := GetString(s, 0)
	if err != nil || key != "uuid" {
		return "", fmt.Errorf("expected 'uuid' node")
	}

	uuidStr, err := GetString(s, 1)
	if err != nil {
		return "", err
	}

	return UUID(uuidStr), nil
}

// GetColor extracts RGBA color from a (color R G B [A]) node.
// Values are 0-255 in the file, converted to 0.0-1.0.
func GetColor(s kicadsexp.Sexp) (Color, error) {
	color := Color{A: 1.0}

	if s == nil || s.IsLeaf() {
		return color, fmt.Errorf("expected (color ...) list")
	}

	r, err := GetFloat(s, 1)
	if err != nil {
		return color, fmt.Errorf("failed to parse R: %w", err)
	}
	g, err := GetFloat(s, 2)
	if err != nil {
		return color, fmt.Errorf("failed to parse G: %w", err)
	}
	b, err := GetFloat(s, 3)
	if err != nil {
		return color, fmt.Errorf("failed to parse B: %w", err)
	}

	color.R = r / 255.0
	color.G = g / 255.0
	color.B = b / 255.0

	if a, err := GetFloat(s, 4); err == nil {
		color.A = a / 255.0
	}

	return color, nil
}

// GetStroke extracts stroke properties from a (stroke ...) node.
// Format: (stroke (width W) (type solid|dash|dot|default) [(color R G B A)])
func GetStroke(s kicadsexp.Sexp) (Stroke, error) {
	stroke := Stroke{
		Width: 0,
		Type:  "default",
		Color: Color{A: 1},
	}

	if s == nil || s.IsLeaf() {
		return stroke, fmt.Errorf("expected (stroke ...) list")
	}

	if widthNode, ok := FindNode(s, "width"); ok {
		if width, err := GetFloat(widthNode, 1); err == nil {
			stroke.Width = width
		}
	}

	if typeNode, ok := FindNode(s, "type"); ok {
		if strokeType, err := GetString(typeNode, 1); err == nil {
			stroke.Type = strokeType
		}
	}

	if colorNode, ok := FindNode(s, "color"); ok {
		if color, err := GetColor(colorNode); err == nil {
			stroke.Color = color
		}
	}

	return stroke, nil
}

// GetFill extracts fill properties from a (fill ...) node.
// Format: (fill (type none|solid) [(color R G B A)])
func GetFill(s kicadsexp.Sexp) (Fill, error) {
	fill := Fill{
		Type:  "none",
		Color: Color{A: 1},
	}

	if s == nil || s.IsLeaf() {
		return fill, fmt.Errorf("expected (fill ...) list")
	}

	if typeNode, ok := FindNode(s, "type"); ok {
		if fillType, err := GetString(typeNode, 1); err == nil {
			fill.Type = fillType
		}
	}

	if colorNode, ok := FindNode(s, "color"); ok {
		if color, err := GetColor(colorNode); err == nil {
			fill.Color = color
		}
	}

	return fill, nil
}

// GetEffects extracts text effects from an (effects ...) node
func GetEffects(s kicadsexp.Sexp) (Effects, error) {
	effects := Effects{}

	if s == nil || s.IsLeaf() {
		return effects, fmt.Errorf("expected (effects ...) list")
	}

	if fontNode, ok := FindNode(s, "font"); ok {
		if font, err := GetFont(fontNode); err == nil {
			effects.Font = font
		}
	}

	if justifyNode, ok := FindNode(s, "justify"); ok {
		if justify, err := GetJustify(justifyNode); err == nil {
			effects.Justify = justify
		}
	}

	// Both the bare-symbol form (hide) and the newer (hide yes) appear in
	// the wild
	effects.Hide = HasSymbol(s, "hide")
	if hideNode, ok := FindNode(s, "hide"); ok && !hideNode.IsLeaf() {
		val, _ := GetString(hideNode, 1)
		effects.Hide = val == "yes"
	}

	return effects, nil
}

// GetFont extracts font properties from a (font ...) node
func GetFont(s kicadsexp.Sexp) (Font, error) {
	font := Font{}

	if s == nil || s.IsLeaf() {
		return font, fmt.Errorf("expected (font ...) list")
	}

	if sizeNode, ok := FindNode(s, "size"); ok {
		w, _ := GetFloat(sizeNode, 1)
		h, _ := GetFloat(sizeNode, 2)
		font.Size = Size{Width: w, Height: h}
	}

	if thicknessNode, ok := FindNode(s, "thickness"); ok {
		font.Thickness, _ = GetFloat(thicknessNode, 1)
	}

	font.Bold = HasSymbol(s, "bold")
	font.Italic = HasSymbol(s, "italic")

	if faceNode, ok := FindNode(s, "face"); ok {
		font.Face, _ = GetString(faceNode, 1)
	}

	return font, nil
}

// GetJustify extracts justification from a (justify ...) node
func GetJustify(s kicadsexp.Sexp) (Justify, error) {
	justify := Justify{
		Horizontal: "center",
		Vertical:   "center",
	}

	if s == nil || s.IsLeaf() {
		return justify, nil
	}

	for _, item := range GetListItems(s) {
		sym, ok := item.(kicadsexp.Symbol)
		if !ok {
			continue
		}
		switch string(sym) {
		case "left":
			justify.Horizontal = "left"
		case "right":
			justify.Horizontal = "right"
		case "top":
			justify.Vertical = "top"
		case "bottom":
			justify.Vertical = "bottom"
		case "mirror":
			justify.Mirror = true
		}
	}

	return justify, nil
}

// GetProperty extracts a property from a (property "key" "value" ...) node
func GetProperty(s kicadsexp.Sexp) (Property, error) {
	prop := Property{}

	if s == nil || s.IsLeaf() {
		return prop, fmt.Errorf("expected (property ...) list")
	}

	key, err := GetString(s, 1)
	if err != nil {
		return prop, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop.Key = key

	// Value can be empty
	prop.Value, _ = GetString(s, 2)

	if idNode, ok := FindNode(s, "id"); ok {
		prop.ID, _ = GetInt(idNode, 1)
	}

	if atNode, ok := FindNode(s, "at"); ok {
		x, errX := GetFloat(atNode, 1)
		y, errY := GetFloat(atNode, 2)
		if errX == nil && errY == nil {
			prop.Position.Position = Position{X: x, Y: y}
		}
		if angle, err := GetAngle(atNode, 3); err == nil {
			prop.Position.Angle = angle
		}
	}

	if effectsNode, ok := FindNode(s, "effects"); ok {
		if effects, err := GetEffects(effectsNode); err == nil {
			prop.Effects = effects
		}
	}

	return prop, nil
}
