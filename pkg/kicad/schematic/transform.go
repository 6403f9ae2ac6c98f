package schematic

// Spatial transforms over schematic documents. Translation is a pure tree
// transform: every positioned element moves by the same offset, library
// symbols stay untouched because their geometry is anchor-relative.

// Translate returns a copy of the schematic with every positioned element
// shifted by (dx, dy) millimeters. The receiver is not modified.
func (s *Schematic) Translate(dx, dy float64) *Schematic {
	out := &Schematic{
		Version:      s.Version,
		Generator:    s.Generator,
		GeneratorVer: s.GeneratorVer,
		UUID:         s.UUID,
		Paper:        s.Paper,
		TitleBlock:   s.TitleBlock,
		LibSymbols:   s.LibSymbols,
	}

	out.Symbols = make([]Symbol, len(s.Symbols))
	for i, sym := range s.Symbols {
		moved := sym
		moved.Position = sym.Position.Translate(dx, dy)
		moved.Properties = make([]Property, len(sym.Properties))
		for j, prop := range sym.Properties {
			moved.Properties[j] = prop
			moved.Properties[j].Position.Position = prop.Position.Translate(dx, dy)
		}
		out.Symbols[i] = moved
	}

	out.Wires = make([]Wire, len(s.Wires))
	for i, wire := range s.Wires {
		moved := wire
		moved.Points = make([]Position, len(wire.Points))
		for j, pt := range wire.Points {
			moved.Points[j] = pt.Translate(dx, dy)
		}
		out.Wires[i] = moved
	}

	out.Junctions = make([]Junction, len(s.Junctions))
	for i, junc := range s.Junctions {
		moved := junc
		moved.Position = junc.Position.Translate(dx, dy)
		out.Junctions[i] = moved
	}

	out.NoConnects = make([]NoConnect, len(s.NoConnects))
	for i, nc := range s.NoConnects {
		moved := nc
		moved.Position = nc.Position.Translate(dx, dy)
		out.NoConnects[i] = moved
	}

	out.Labels = make([]Label, len(s.Labels))
	for i, label := range s.Labels {
		moved := label
		moved.Position = label.Position.Translate(dx, dy)
		out.Labels[i] = moved
	}

	out.GlobalLabels = make([]GlobalLabel, len(s.GlobalLabels))
	for i, label := range s.GlobalLabels {
		moved := label
		moved.Position = label.Position.Translate(dx, dy)
		out.GlobalLabels[i] = moved
	}

	out.Texts = make([]Text, len(s.Texts))
	for i, txt := range s.Texts {
		moved := txt
		moved.Position = txt.Position.Translate(dx, dy)
		out.Texts[i] = moved
	}

	out.Polylines = make([]Polyline, len(s.Polylines))
	for i, poly := range s.Polylines {
		moved := poly
		moved.Points = make([]Position, len(poly.Points))
		for j, pt := range poly.Points {
			moved.Points[j] = pt.Translate(dx, dy)
		}
		out.Polylines[i] = moved
	}

	return out
}

// Merge appends all elements of other into s. Library symbols are
// deduplicated by name so each definition is embedded once regardless of
// how many source documents carried it.
func (s *Schematic) Merge(other *Schematic) {
	for _, lib := range other.LibSymbols {
		if !s.HasLibSymbol(lib.Name) {
			s.LibSymbols = append(s.LibSymbols, lib)
		}
	}

	s.Symbols = append(s.Symbols, other.Symbols...)
	s.Wires = append(s.Wires, other.Wires...)
	s.Junctions = append(s.Junctions, other.Junctions...)
	s.NoConnects = append(s.NoConnects, other.NoConnects...)
	s.Labels = append(s.Labels, other.Labels...)
	s.GlobalLabels = append(s.GlobalLabels, other.GlobalLabels...)
	s.Texts = append(s.Texts, other.Texts...)
	s.Polylines = append(s.Polylines, other.Polylines...)
}
