package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version for schematics (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad schematic file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad schematic from an io.Reader.
// Each call builds a fresh tree; parser state is never shared.
func Parse(r io.Reader) (*Schematic, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]

	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic file: expected 'kicad_sch', got '%s'", rootName)
	}

	sch := &Schematic{}

	if err := parseHeader(root, sch); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if uuidNode, found := sexp.FindNode(root, "uuid"); found {
		if uuid, err := sexp.GetUUID(uuidNode); err == nil {
			sch.UUID = uuid
		}
	}

	if paperNode, found := sexp.FindNode(root, "paper"); found {
		if paper, err := sexp.GetQuotedString(paperNode, 1); err == nil {
			sch.Paper = paper
		}
	}

	if titleBlockNode, found := sexp.FindNode(root, "title_block"); found {
		sch.TitleBlock = parseTitleBlock(titleBlockNode)
	}

	if libSymbolsNode, found := sexp.FindNode(root, "lib_symbols"); found {
		sch.LibSymbols = parseLibSymbols(libSymbolsNode)
	}

	sch.Symbols = parseSymbols(root)
	sch.Wires = parseWires(root)
	sch.Junctions = parseJunctions(root)
	sch.NoConnects = parseNoConnects(root)
	sch.Labels = parseLabels(root)
	sch.GlobalLabels = parseGlobalLabels(root)
	sch.Texts = parseTexts(root)
	sch.Polylines = parsePolylines(root)

	return sch, nil
}

// parseHeader extracts version and generator information
func parseHeader(root kicadsexp.Sexp, sch *Schematic) error {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}

	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	sch.Version = ver

	if genNode, found := sexp.FindNode(root, "generator"); found {
		if gen, err := sexp.GetQuotedString(genNode, 1); err == nil {
			sch.Generator = gen
		}
	}

	if genVerNode, found := sexp.FindNode(root, "generator_version"); found {
		if genVer, err := sexp.GetQuotedString(genVerNode, 1); err == nil {
			sch.GeneratorVer = genVer
		}
	}

	return nil
}

// parseTitleBlock extracts title block information
func parseTitleBlock(node kicadsexp.Sexp) TitleBlock {
	tb := TitleBlock{}

	if titleNode, found := sexp.FindNode(node, "title"); found {
		tb.Title, _ = sexp.GetQuotedString(titleNode, 1)
	}
	if dateNode, found := sexp.FindNode(node, "date"); found {
		tb.Date, _ = sexp.GetQuotedString(dateNode, 1)
	}
	if revNode, found := sexp.FindNode(node, "rev"); found {
		tb.Revision, _ = sexp.GetQuotedString(revNode, 1)
	}
	if companyNode, found := sexp.FindNode(node, "company"); found {
		tb.Company, _ = sexp.GetQuotedString(companyNode, 1)
	}
	for _, cn := range sexp.FindAllNodes(node, "comment") {
		num, _ := sexp.GetInt(cn, 1)
		text, _ := sexp.GetQuotedString(cn, 2)
		switch num {
		case 1:
			tb.Comment1 = text
		case 2:
			tb.Comment2 = text
		case 3:
			tb.Comment3 = text
		case 4:
			tb.Comment4 = text
		}
	}

	return tb
}

// parseLibSymbols parses embedded library symbols
func parseLibSymbols(node kicadsexp.Sexp) []LibSymbol {
	symbolNodes := sexp.FindAllNodes(node, "symbol")
	symbols := make([]LibSymbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		symbols = append(symbols, parseLibSymbol(symNode))
	}

	return symbols
}

// parseLibSymbol parses a single library symbol definition.
// The original node is retained for lossless serialization.
func parseLibSymbol(node kicadsexp.Sexp) LibSymbol {
	sym := LibSymbol{}

	sym.Name, _ = sexp.GetQuotedString(node, 1)

	if list, ok := node.(*kicadsexp.List); ok {
		sym.Source = list
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		if prop, err := sexp.GetProperty(pn); err == nil {
			sym.Properties = append(sym.Properties, prop)
		}
	}

	// Pins live inside nested symbol units
	for _, unitNode := range sexp.FindAllNodes(node, "symbol") {
		for _, pn := range sexp.FindAllNodes(unitNode, "pin") {
			sym.Pins = append(sym.Pins, parsePin(pn))
		}
	}

	return sym
}

// parsePin parses a pin definition
func parsePin(node kicadsexp.Sexp) Pin {
	pin := Pin{}

	pin.Type, _ = sexp.GetString(node, 1)
	pin.Style, _ = sexp.GetString(node, 2)

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, _ := getPosition(atNode)
		pin.Position = pos.Position
		pin.Angle = pos.Angle
	}

	if lenNode, found := sexp.FindNode(node, "length"); found {
		pin.Length, _ = sexp.GetFloat(lenNode, 1)
	}

	if nameNode, found := sexp.FindNode(node, "name"); found {
		pin.Name, _ = sexp.GetQuotedString(nameNode, 1)
	}

	if numNode, found := sexp.FindNode(node, "number"); found {
		pin.Number, _ = sexp.GetQuotedString(numNode, 1)
	}

	pin.Hide = sexp.HasSymbol(node, "hide")

	return pin
}

// parseSymbols parses symbol instances
func parseSymbols(root kicadsexp.Sexp) []Symbol {
	symbolNodes := sexp.FindAllNodes(root, "symbol")
	symbols := make([]Symbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		symbols = append(symbols, parseSymbol(symNode))
	}

	return symbols
}

// parseSymbol parses a single symbol instance
func parseSymbol(node kicadsexp.Sexp) Symbol {
	sym := Symbol{
		InBom:   true,
		OnBoard: true,
		Unit:    1,
	}

	if libNode, found := sexp.FindNode(node, "lib_id"); found {
		sym.LibID, _ = sexp.GetQuotedString(libNode, 1)
	}

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, _ := getPosition(atNode)
		sym.Position = pos.Position
		sym.Angle = pos.Angle
	}

	if mirrorNode, found := sexp.FindNode(node, "mirror"); found {
		sym.Mirror, _ = sexp.GetString(mirrorNode, 1)
	}

	if unitNode, found := sexp.FindNode(node, "unit"); found {
		sym.Unit, _ = sexp.GetInt(unitNode, 1)
	}

	if ibNode, found := sexp.FindNode(node, "in_bom"); found {
		val, _ := sexp.GetString(ibNode, 1)
		sym.InBom = val == "yes"
	}
	if obNode, found := sexp.FindNode(node, "on_board"); found {
		val, _ := sexp.GetString(obNode, 1)
		sym.OnBoard = val == "yes"
	}

	if uuidNode, found := sexp.FindNode(node, "uuid"); found {
		sym.UUID, _ = sexp.GetUUID(uuidNode)
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		if prop, err := sexp.GetProperty(pn); err == nil {
			sym.Properties = append(sym.Properties, prop)
		}
	}

	for _, pn := range sexp.FindAllNodes(node, "pin") {
		ref := PinRef{}
		ref.Number, _ = sexp.GetQuotedString(pn, 1)
		if uuidNode, found := sexp.FindNode(pn, "uuid"); found {
			ref.UUID, _ = sexp.GetUUID(uuidNode)
		}
		sym.Pins = append(sym.Pins, ref)
	}

	return sym
}

// parseWires parses wire connections
func parseWires(root kicadsexp.Sexp) []Wire {
	wireNodes := sexp.FindAllNodes(root, "wire")
	wires := make([]Wire, 0, len(wireNodes))

	for _, wn := range wireNodes {
		wire := Wire{}

		if ptsNode, found := sexp.FindNode(wn, "pts"); found {
			for _, xy := range sexp.FindAllNodes(ptsNode, "xy") {
				pos, _ := getPositionXY(xy)
				wire.Points = append(wire.Points, pos)
			}
		}

		if strokeNode, found := sexp.FindNode(wn, "stroke"); found {
			wire.Stroke, _ = sexp.GetStroke(strokeNode)
		}

		if uuidNode, found := sexp.FindNode(wn, "uuid"); found {
			wire.UUID, _ = sexp.GetUUID(uuidNode)
		}

		wires = append(wires, wire)
	}

	return wires
}

// parsePolylines parses graphical polylines
func parsePolylines(root kicadsexp.Sexp) []Polyline {
	polyNodes := sexp.FindAllNodes(root, "polyline")
	polys := make([]Polyline, 0, len(polyNodes))

	for _, pn := range polyNodes {
		poly := Polyline{}

		if ptsNode, found := sexp.FindNode(pn, "pts"); found {
			for _, xy := range sexp.FindAllNodes(ptsNode, "xy") {
				pos, _ := getPositionXY(xy)
				poly.Points = append(poly.Points, pos)
			}
		}

		if strokeNode, found := sexp.FindNode(pn, "stroke"); found {
			poly.Stroke, _ = sexp.GetStroke(strokeNode)
		}

		if fillNode, found := sexp.FindNode(pn, "fill"); found {
			poly.Fill, _ = sexp.GetFill(fillNode)
		}

		if uuidNode, found := sexp.FindNode(pn, "uuid"); found {
			poly.UUID, _ = sexp.GetUUID(uuidNode)
		}

		polys = append(polys, poly)
	}

	return polys
}

// parseJunctions parses wire junctions
func parseJunctions(root kicadsexp.Sexp) []Junction {
	juncNodes := sexp.FindAllNodes(root, "junction")
	junctions := make([]Junction, 0, len(juncNodes))

	for _, jn := range juncNodes {
		junc := Junction{}

		if atNode, found := sexp.FindNode(jn, "at"); found {
			pos, _ := getPosition(atNode)
			junc.Position = pos.Position
		}

		if diamNode, found := sexp.FindNode(jn, "diameter"); found {
			junc.Diameter, _ = sexp.GetFloat(diamNode, 1)
		}

		if colorNode, found := sexp.FindNode(jn, "color"); found {
			junc.Color, _ = sexp.GetColor(colorNode)
		}

		if uuidNode, found := sexp.FindNode(jn, "uuid"); found {
			junc.UUID, _ = sexp.GetUUID(uuidNode)
		}

		junctions = append(junctions, junc)
	}

	return junctions
}

// parseNoConnects parses no-connect markers
func parseNoConnects(root kicadsexp.Sexp) []NoConnect {
	ncNodes := sexp.FindAllNodes(root, "no_connect")
	ncs := make([]NoConnect, 0, len(ncNodes))

	for _, ncn := range ncNodes {
		nc := NoConnect{}

		if atNode, found := sexp.FindNode(ncn, "at"); found {
			pos, _ := getPosition(atNode)
			nc.Position = pos.Position
		}

		if uuidNode, found := sexp.FindNode(ncn, "uuid"); found {
			nc.UUID, _ = sexp.GetUUID(uuidNode)
		}

		ncs = append(ncs, nc)
	}

	return ncs
}

// parseLabels parses local wire labels
func parseLabels(root kicadsexp.Sexp) []Label {
	labelNodes := sexp.FindAllNodes(root, "label")
	labels := make([]Label, 0, len(labelNodes))

	for _, ln := range labelNodes {
		label := Label{}

		label.Text, _ = sexp.GetQuotedString(ln, 1)

		if atNode, found := sexp.FindNode(ln, "at"); found {
			pos, _ := getPosition(atNode)
			label.Position = pos.Position
			label.Angle = pos.Angle
		}

		if effectsNode, found := sexp.FindNode(ln, "effects"); found {
			label.Effects, _ = sexp.GetEffects(effectsNode)
		}

		if uuidNode, found := sexp.FindNode(ln, "uuid"); found {
			label.UUID, _ = sexp.GetUUID(uuidNode)
		}

		labels = append(labels, label)
	}

	return labels
}

// parseGlobalLabels parses global labels
func parseGlobalLabels(root kicadsexp.Sexp) []GlobalLabel {
	labelNodes := sexp.FindAllNodes(root, "global_label")
	labels := make([]GlobalLabel, 0, len(labelNodes))

	for _, ln := range labelNodes {
		label := GlobalLabel{}

		label.Text, _ = sexp.GetQuotedString(ln, 1)

		if shapeNode, found := sexp.FindNode(ln, "shape"); found {
			label.Shape, _ = sexp.GetString(shapeNode, 1)
		}

		if atNode, found := sexp.FindNode(ln, "at"); found {
			pos, _ := getPosition(atNode)
			label.Position = pos.Position
			label.Angle = pos.Angle
		}

		if effectsNode, found := sexp.FindNode(ln, "effects"); found {
			label.Effects, _ = sexp.GetEffects(effectsNode)
		}

		if uuidNode, found := sexp.FindNode(ln, "uuid"); found {
			label.UUID, _ = sexp.GetUUID(uuidNode)
		}

		for _, pn := range sexp.FindAllNodes(ln, "property") {
			if prop, err := sexp.GetProperty(pn); err == nil {
				label.Properties = append(label.Properties, prop)
			}
		}

		labels = append(labels, label)
	}

	return labels
}

// parseTexts parses graphical text elements
func parseTexts(root kicadsexp.Sexp) []Text {
	textNodes := sexp.FindAllNodes(root, "text")
	texts := make([]Text, 0, len(textNodes))

	for _, tn := range textNodes {
		text := Text{}

		text.Text, _ = sexp.GetQuotedString(tn, 1)

		if atNode, found := sexp.FindNode(tn, "at"); found {
			pos, _ := getPosition(atNode)
			text.Position = pos.Position
			text.Angle = pos.Angle
		}

		if effectsNode, found := sexp.FindNode(tn, "effects"); found {
			text.Effects, _ = sexp.GetEffects(effectsNode)
		}

		if uuidNode, found := sexp.FindNode(tn, "uuid"); found {
			text.UUID, _ = sexp.GetUUID(uuidNode)
		}

		texts = append(texts, text)
	}

	return texts
}
