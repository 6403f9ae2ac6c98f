package compose

import (
	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
)

// GridUnit is the spatial quantum in millimeters: one grid cell is one
// half-inch on the underlying KiCad grid.
const GridUnit = 12.7

// wireOverlap is how far a synthesized connector wire reaches into each
// block past the shared edge, in millimeters.
const wireOverlap = 1.0

// InterconnectWire is a synthesized two-point wire joining matching bus
// nets across a shared block edge.
type InterconnectWire struct {
	Net  string
	From string // slug of the block whose east/south edge starts the wire
	To   string // slug of the neighboring block
	Wire schematic.Wire
}

// occupancy maps each covered grid cell to its placed block, giving
// O(1) neighbor lookups during edge matching.
type occupancy map[[2]int]*block.Placed

func buildOccupancy(placed []block.Placed) occupancy {
	occ := make(occupancy)
	for i := range placed {
		pb := &placed[i]
		for dy := 0; dy < pb.Definition.Height; dy++ {
			for dx := 0; dx < pb.Definition.Width; dx++ {
				occ[[2]int{pb.GridX + dx, pb.GridY + dy}] = pb
			}
		}
	}
	return occ
}

// Interconnect synthesizes connector wires between grid-adjacent
// blocks whose facing bus edges declare the same net name. Each block's
// east edges are matched against every east neighbor's west edges, and
// its south edges against every south neighbor's north edges; the west
// and north directions are covered by the neighbor's own scan, so no
// adjacency produces a duplicate wire. Blocks that declare only one
// side of a shared edge produce no wire.
func Interconnect(placed []block.Placed) []InterconnectWire {
	occ := buildOccupancy(placed)
	var wires []InterconnectWire

	for i := range placed {
		pb := &placed[i]

		// East: every distinct neighbor across the rightmost column.
		// A tall block can face several neighbors along one edge, and a
		// tall neighbor can span several of its rows, so each pair is
		// matched once.
		east := make(map[*block.Placed]bool)
		for row := 0; row < pb.Definition.Height; row++ {
			neighbor := occ[[2]int{pb.GridX + pb.Definition.Width, pb.GridY + row}]
			if neighbor == nil || neighbor == pb || east[neighbor] {
				continue
			}
			east[neighbor] = true
			wires = append(wires, matchEdges(pb, neighbor, block.EdgeEast, block.EdgeWest)...)
		}

		// South: every distinct neighbor below the bottom row
		south := make(map[*block.Placed]bool)
		for col := 0; col < pb.Definition.Width; col++ {
			neighbor := occ[[2]int{pb.GridX + col, pb.GridY + pb.Definition.Height}]
			if neighbor == nil || neighbor == pb || south[neighbor] {
				continue
			}
			south[neighbor] = true
			wires = append(wires, matchEdges(pb, neighbor, block.EdgeSouth, block.EdgeNorth)...)
		}
	}

	return wires
}

// matchEdges pairs every net on pb's fromEdge with a same-named net on
// the neighbor's toEdge and synthesizes the connecting wire.
func matchEdges(pb, neighbor *block.Placed, fromEdge, toEdge block.Edge) []InterconnectWire {
	var wires []InterconnectWire

	for _, conn := range pb.Definition.Edges.List(fromEdge) {
		for _, other := range neighbor.Definition.Edges.List(toEdge) {
			if conn.Net != other.Net {
				continue
			}
			wires = append(wires, InterconnectWire{
				Net:  conn.Net,
				From: pb.Definition.Slug,
				To:   neighbor.Definition.Slug,
				Wire: edgeWire(pb, neighbor, fromEdge, conn, other),
			})
		}
	}

	return wires
}

// edgeWire computes the two endpoints of a connector wire. The wire
// runs perpendicular to the shared edge and reaches wireOverlap mm
// into each block; the entry's lateral offset positions it along the
// edge.
func edgeWire(pb, neighbor *block.Placed, fromEdge block.Edge, from, to block.EdgeConnection) schematic.Wire {
	var a, b sexp.Position

	switch fromEdge {
	case block.EdgeEast:
		edgeX := float64(pb.GridX+pb.Definition.Width) * GridUnit
		a = sexp.Position{X: edgeX - wireOverlap, Y: float64(pb.GridY)*GridUnit + from.Offset}
		b = sexp.Position{X: float64(neighbor.GridX)*GridUnit + wireOverlap, Y: float64(neighbor.GridY)*GridUnit + to.Offset}
	case block.EdgeSouth:
		edgeY := float64(pb.GridY+pb.Definition.Height) * GridUnit
		a = sexp.Position{X: float64(pb.GridX)*GridUnit + from.Offset, Y: edgeY - wireOverlap}
		b = sexp.Position{X: float64(neighbor.GridX)*GridUnit + to.Offset, Y: float64(neighbor.GridY)*GridUnit + wireOverlap}
	}

	return schematic.Wire{
		Points: []sexp.Position{a, b},
		UUID:   sexp.UUID(uuid.NewString()),
	}
}
