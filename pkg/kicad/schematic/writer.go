package schematic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

// Serialization back to the .kicad_sch dialect. Output uses the same
// tab-indented layout eeschema produces, so merged documents open cleanly
// in KiCad and re-parse with this package.

// WriteFile serializes the schematic to a file
func WriteFile(filename string, s *Schematic) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return Write(file, s)
}

// Write serializes the schematic to an io.Writer
func Write(w io.Writer, s *Schematic) error {
	var b strings.Builder

	b.WriteString("(kicad_sch\n")
	fmt.Fprintf(&b, "\t(version %d)\n", s.Version)
	fmt.Fprintf(&b, "\t(generator %q)\n", s.Generator)
	if s.GeneratorVer != "" {
		fmt.Fprintf(&b, "\t(generator_version %q)\n", s.GeneratorVer)
	}
	if s.UUID != "" {
		fmt.Fprintf(&b, "\t(uuid %q)\n", string(s.UUID))
	}
	if s.Paper != "" {
		fmt.Fprintf(&b, "\t(paper %q)\n", s.Paper)
	}

	writeTitleBlock(&b, s.TitleBlock)
	writeLibSymbols(&b, s.LibSymbols)

	for _, junc := range s.Junctions {
		fmt.Fprintf(&b, "\t(junction (at %s %s) (diameter %s)", num(junc.Position.X), num(junc.Position.Y), num(junc.Diameter))
		if junc.UUID != "" {
			fmt.Fprintf(&b, " (uuid %q)", string(junc.UUID))
		}
		b.WriteString(")\n")
	}

	for _, nc := range s.NoConnects {
		fmt.Fprintf(&b, "\t(no_connect (at %s %s)", num(nc.Position.X), num(nc.Position.Y))
		if nc.UUID != "" {
			fmt.Fprintf(&b, " (uuid %q)", string(nc.UUID))
		}
		b.WriteString(")\n")
	}

	for _, wire := range s.Wires {
		b.WriteString("\t(wire (pts")
		for _, pt := range wire.Points {
			fmt.Fprintf(&b, " (xy %s %s)", num(pt.X), num(pt.Y))
		}
		b.WriteString(")\n")
		fmt.Fprintf(&b, "\t\t(stroke (width %s) (type %s))\n", num(wire.Stroke.Width), strokeType(wire.Stroke))
		if wire.UUID != "" {
			fmt.Fprintf(&b, "\t\t(uuid %q)\n", string(wire.UUID))
		}
		b.WriteString("\t)\n")
	}

	for _, poly := range s.Polylines {
		b.WriteString("\t(polyline (pts")
		for _, pt := range poly.Points {
			fmt.Fprintf(&b, " (xy %s %s)", num(pt.X), num(pt.Y))
		}
		b.WriteString(")\n")
		fmt.Fprintf(&b, "\t\t(stroke (width %s) (type %s))\n", num(poly.Stroke.Width), strokeType(poly.Stroke))
		if poly.Fill.Type != "" {
			fmt.Fprintf(&b, "\t\t(fill (type %s))\n", poly.Fill.Type)
		}
		if poly.UUID != "" {
			fmt.Fprintf(&b, "\t\t(uuid %q)\n", string(poly.UUID))
		}
		b.WriteString("\t)\n")
	}

	for _, label := range s.Labels {
		fmt.Fprintf(&b, "\t(label %q (at %s %s %s)\n", label.Text, num(label.Position.X), num(label.Position.Y), num(float64(label.Angle)))
		writeEffects(&b, label.Effects, 2)
		if label.UUID != "" {
			fmt.Fprintf(&b, "\t\t(uuid %q)\n", string(label.UUID))
		}
		b.WriteString("\t)\n")
	}

	for _, label := range s.GlobalLabels {
		shape := label.Shape
		if shape == "" {
			shape = "passive"
		}
		fmt.Fprintf(&b, "\t(global_label %q (shape %s) (at %s %s %s)\n", label.Text, shape, num(label.Position.X), num(label.Position.Y), num(float64(label.Angle)))
		writeEffects(&b, label.Effects, 2)
		if label.UUID != "" {
			fmt.Fprintf(&b, "\t\t(uuid %q)\n", string(label.UUID))
		}
		b.WriteString("\t)\n")
	}

	for _, txt := range s.Texts {
		fmt.Fprintf(&b, "\t(text %q (at %s %s %s)\n", txt.Text, num(txt.Position.X), num(txt.Position.Y), num(float64(txt.Angle)))
		writeEffects(&b, txt.Effects, 2)
		if txt.UUID != "" {
			fmt.Fprintf(&b, "\t\t(uuid %q)\n", string(txt.UUID))
		}
		b.WriteString("\t)\n")
	}

	for _, sym := range s.Symbols {
		writeSymbol(&b, sym)
	}

	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTitleBlock(b *strings.Builder, tb TitleBlock) {
	if tb == (TitleBlock{}) {
		return
	}

	b.WriteString("\t(title_block\n")
	if tb.Title != "" {
		fmt.Fprintf(b, "\t\t(title %q)\n", tb.Title)
	}
	if tb.Date != "" {
		fmt.Fprintf(b, "\t\t(date %q)\n", tb.Date)
	}
	if tb.Revision != "" {
		fmt.Fprintf(b, "\t\t(rev %q)\n", tb.Revision)
	}
	if tb.Company != "" {
		fmt.Fprintf(b, "\t\t(company %q)\n", tb.Company)
	}
	for i, comment := range []string{tb.Comment1, tb.Comment2, tb.Comment3, tb.Comment4} {
		if comment != "" {
			fmt.Fprintf(b, "\t\t(comment %d %q)\n", i+1, comment)
		}
	}
	b.WriteString("\t)\n")
}

func writeLibSymbols(b *strings.Builder, libs []LibSymbol) {
	if len(libs) == 0 {
		b.WriteString("\t(lib_symbols)\n")
		return
	}

	b.WriteString("\t(lib_symbols\n")
	for _, lib := range libs {
		if lib.Source != nil {
			writeSexp(b, lib.Source, 2)
			continue
		}
		// Symbol parsed without a retained source node; emit a minimal stub
		fmt.Fprintf(b, "\t\t(symbol %q)\n", lib.Name)
	}
	b.WriteString("\t)\n")
}

func writeSymbol(b *strings.Builder, sym Symbol) {
	fmt.Fprintf(b, "\t(symbol (lib_id %q) (at %s %s %s)", sym.LibID, num(sym.Position.X), num(sym.Position.Y), num(float64(sym.Angle)))
	if sym.Mirror != "" {
		fmt.Fprintf(b, " (mirror %s)", sym.Mirror)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "\t\t(unit %d)\n", sym.Unit)
	fmt.Fprintf(b, "\t\t(in_bom %s)\n", yesNo(sym.InBom))
	fmt.Fprintf(b, "\t\t(on_board %s)\n", yesNo(sym.OnBoard))
	if sym.UUID != "" {
		fmt.Fprintf(b, "\t\t(uuid %q)\n", string(sym.UUID))
	}

	for _, prop := range sym.Properties {
		fmt.Fprintf(b, "\t\t(property %q %q (at %s %s %s)",
			prop.Key, prop.Value,
			num(prop.Position.X), num(prop.Position.Y), num(float64(prop.Position.Angle)))
		if prop.Effects.Hide {
			b.WriteString(" (effects (hide yes))")
		}
		b.WriteString(")\n")
	}

	for _, pin := range sym.Pins {
		fmt.Fprintf(b, "\t\t(pin %q", pin.Number)
		if pin.UUID != "" {
			fmt.Fprintf(b, " (uuid %q)", string(pin.UUID))
		}
		b.WriteString(")\n")
	}

	b.WriteString("\t)\n")
}

func writeEffects(b *strings.Builder, e Effects, indent int) {
	tabs := strings.Repeat("\t", indent)
	size := e.Font.Size
	if size.Width == 0 && size.Height == 0 {
		size = Size{Width: 1.27, Height: 1.27}
	}
	fmt.Fprintf(b, "%s(effects (font (size %s %s))", tabs, num(size.Width), num(size.Height))
	if e.Hide {
		b.WriteString(" (hide yes)")
	}
	b.WriteString(")\n")
}

// writeSexp pretty-prints a retained s-expression node with tab indentation.
// Lists containing only atoms stay on one line; nested lists get their own.
func writeSexp(b *strings.Builder, node kicadsexp.Sexp, indent int) {
	tabs := strings.Repeat("\t", indent)

	if node.IsLeaf() {
		b.WriteString(tabs)
		b.WriteString(node.String())
		b.WriteString("\n")
		return
	}

	items := listItems(node)
	flat := true
	for _, item := range items {
		if !item.IsLeaf() {
			flat = false
			break
		}
	}

	if flat {
		b.WriteString(tabs)
		b.WriteString(node.String())
		b.WriteString("\n")
		return
	}

	b.WriteString(tabs)
	b.WriteString("(")
	i := 0
	for ; i < len(items) && items[i].IsLeaf(); i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(items[i].String())
	}
	b.WriteString("\n")
	for ; i < len(items); i++ {
		writeSexp(b, items[i], indent+1)
	}
	b.WriteString(tabs)
	b.WriteString(")\n")
}

func listItems(node kicadsexp.Sexp) []kicadsexp.Sexp {
	l, ok := node.(*kicadsexp.List)
	if !ok {
		return nil
	}
	items := make([]kicadsexp.Sexp, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		items = append(items, l.Get(i))
	}
	return items
}

// num formats a coordinate the way eeschema does: shortest decimal form
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func strokeType(s Stroke) string {
	if s.Type == "" {
		return "default"
	}
	return s.Type
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
