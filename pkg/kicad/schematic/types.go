// Package schematic provides parsing, transformation, and serialization for
// KiCad schematic files (.kicad_sch). Block source documents are flat single
// sheets; the merge pipeline combines many of them into one document.
package schematic

import (
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

// Re-export shared types from sexp package for convenience
type Position = sexp.Position
type Angle = sexp.Angle
type PositionAngle = sexp.PositionAngle
type Size = sexp.Size
type Color = sexp.Color
type Stroke = sexp.Stroke
type Fill = sexp.Fill
type UUID = sexp.UUID
type Effects = sexp.Effects
type Font = sexp.Font
type Justify = sexp.Justify
type Property = sexp.Property

// Schematic represents a KiCad schematic document
type Schematic struct {
	Version      int           // File format version
	Generator    string        // Generator info (e.g., "eeschema")
	GeneratorVer string        // Generator version
	UUID         UUID          // Schematic UUID
	Paper        string        // Paper size (e.g., "A4")
	TitleBlock   TitleBlock    // Title block information
	LibSymbols   []LibSymbol   // Embedded library symbols
	Symbols      []Symbol      // Symbol instances on the schematic
	Wires        []Wire        // Wire connections
	Junctions    []Junction    // Wire junctions
	NoConnects   []NoConnect   // No-connect markers
	Labels       []Label       // Local labels
	GlobalLabels []GlobalLabel // Global labels
	Texts        []Text        // Graphical text
	Polylines    []Polyline    // Graphical polylines
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comment1 string
	Comment2 string
	Comment3 string
	Comment4 string
}

// LibSymbol represents an embedded library symbol definition.
// The source node is retained so serialization reproduces the symbol's
// graphics exactly; library symbols are position-independent, so spatial
// transforms never touch them.
type LibSymbol struct {
	Name       string           // Symbol name (e.g., "Device:R")
	Properties []sexp.Property  // Symbol properties
	Pins       []Pin            // Pin definitions
	Source     *kicadsexp.List  // Original (symbol ...) node
}

// Pin represents a library symbol pin
type Pin struct {
	Type     string   // Pin type (input, output, passive, power_in, ...)
	Style    string   // Pin style (line, inverted, clock, ...)
	Position Position // Pin position relative to the symbol anchor
	Angle    Angle    // Pin angle (0, 90, 180, 270)
	Length   float64  // Pin length
	Name     string   // Pin name
	Number   string   // Pin number
	Hide     bool     // Hidden pin
}

// Symbol represents a symbol instance placed on the schematic
type Symbol struct {
	LibID      string     // Library identifier (e.g., "Device:R")
	Position   Position   // Position on schematic
	Angle      Angle      // Rotation angle
	Mirror     string     // Mirror mode (x, y, or empty)
	Unit       int        // Unit number (for multi-unit symbols)
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	UUID       UUID       // Instance UUID
	Properties []Property // Instance properties (Reference, Value, ...)
	Pins       []PinRef   // Pin references
}

// PinRef represents a pin reference in a symbol instance
type PinRef struct {
	Number string // Pin number
	UUID   UUID   // Pin UUID
}

// Wire represents a wire connection
type Wire struct {
	Points []Position // Wire points (at least 2)
	Stroke Stroke     // Wire stroke style
	UUID   UUID       // Wire UUID
}

// Junction represents a wire junction
type Junction struct {
	Position Position // Junction position
	Diameter float64  // Junction diameter
	Color    Color    // Junction color
	UUID     UUID     // Junction UUID
}

// NoConnect represents a no-connect marker
type NoConnect struct {
	Position Position // Marker position
	UUID     UUID     // Marker UUID
}

// Label represents a local wire label
type Label struct {
	Text     string   // Label text
	Position Position // Label position
	Angle    Angle    // Label rotation
	Effects  Effects  // Text effects
	UUID     UUID     // Label UUID
}

// GlobalLabel represents a global label (visible across the whole design)
type GlobalLabel struct {
	Text       string     // Label text
	Shape      string     // Label shape (input, output, bidirectional, ...)
	Position   Position   // Label position
	Angle      Angle      // Label rotation
	Effects    Effects    // Text effects
	UUID       UUID       // Label UUID
	Properties []Property // Label properties
}

// Text represents graphical text on the schematic
type Text struct {
	Text     string
	Position Position
	Angle    Angle
	Effects  Effects
	UUID     UUID
}

// Polyline represents a graphical polyline (drawn lines that are not wires)
type Polyline struct {
	Points []Position // Polyline points (at least 2)
	Stroke Stroke     // Polyline stroke style
	Fill   Fill       // Area fill for closed shapes
	UUID   UUID       // Polyline UUID
}

// GetSymbol returns a symbol instance by reference designator
func (s *Schematic) GetSymbol(ref string) *Symbol {
	for i := range s.Symbols {
		for _, prop := range s.Symbols[i].Properties {
			if prop.Key == "Reference" && prop.Value == ref {
				return &s.Symbols[i]
			}
		}
	}
	return nil
}

// GetAllReferences returns all reference designators
func (s *Schematic) GetAllReferences() []string {
	var refs []string
	for _, sym := range s.Symbols {
		for _, prop := range sym.Properties {
			if prop.Key == "Reference" && prop.Value != "" {
				refs = append(refs, prop.Value)
				break
			}
		}
	}
	return refs
}

// GetLabels returns all distinct label names (local + global)
func (s *Schematic) GetLabels() []string {
	seen := make(map[string]bool)
	var labels []string

	for _, l := range s.Labels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}
	for _, l := range s.GlobalLabels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}

	return labels
}

// HasLibSymbol reports whether a library symbol with the given name is
// already embedded in the document
func (s *Schematic) HasLibSymbol(name string) bool {
	for _, ls := range s.LibSymbols {
		if ls.Name == name {
			return true
		}
	}
	return false
}

// GetBoundingBox calculates the bounding box of all positioned elements
func (s *Schematic) GetBoundingBox() sexp.BoundingBox {
	bbox := sexp.NewBoundingBox()

	for _, wire := range s.Wires {
		for _, pt := range wire.Points {
			bbox.Expand(pt)
		}
	}

	for _, sym := range s.Symbols {
		bbox.Expand(sym.Position)
	}

	for _, label := range s.Labels {
		bbox.Expand(label.Position)
	}
	for _, label := range s.GlobalLabels {
		bbox.Expand(label.Position)
	}

	for _, junc := range s.Junctions {
		bbox.Expand(junc.Position)
	}
	for _, nc := range s.NoConnects {
		bbox.Expand(nc.Position)
	}
	for _, txt := range s.Texts {
		bbox.Expand(txt.Position)
	}
	for _, poly := range s.Polylines {
		for _, pt := range poly.Points {
			bbox.Expand(pt)
		}
	}

	return bbox
}
