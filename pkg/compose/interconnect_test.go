package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

func edgeBlock(slug string, w, h int, edges block.EdgeConnections) *block.Definition {
	return &block.Definition{
		Slug:     slug,
		Name:     slug,
		Category: block.CategorySensor,
		Width:    w,
		Height:   h,
		Edges:    edges,
	}
}

func TestInterconnectEastWestMatch(t *testing.T) {
	a := edgeBlock("a", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5, Layer: "F.Cu"}},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5, Layer: "F.Cu"}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 1, GridY: 0},
	}

	wires := Interconnect(placed)
	require.Len(t, wires, 1)

	w := wires[0]
	assert.Equal(t, "BUS_SDA", w.Net)
	assert.Equal(t, "a", w.From)
	assert.Equal(t, "b", w.To)

	require.Len(t, w.Wire.Points, 2)
	// Wire reaches 1mm into each block past the shared edge at x=12.7
	assert.InDelta(t, 11.7, w.Wire.Points[0].X, 1e-9)
	assert.InDelta(t, 5.0, w.Wire.Points[0].Y, 1e-9)
	assert.InDelta(t, 13.7, w.Wire.Points[1].X, 1e-9)
	assert.InDelta(t, 5.0, w.Wire.Points[1].Y, 1e-9)
	assert.NotEmpty(t, w.Wire.UUID)
}

func TestInterconnectNameMismatch(t *testing.T) {
	a := edgeBlock("a", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SCL", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 1, GridY: 0},
	}

	assert.Empty(t, Interconnect(placed))
}

func TestInterconnectNoNeighbor(t *testing.T) {
	a := edgeBlock("a", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})

	// Gap of one cell between the blocks
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 2, GridY: 0},
	}

	assert.Empty(t, Interconnect(placed))
}

func TestInterconnectSouthNorthMatch(t *testing.T) {
	a := edgeBlock("a", 2, 1, block.EdgeConnections{
		South: []block.EdgeConnection{{Net: "PWR_RAIL", Offset: 10}},
	})
	b := edgeBlock("b", 2, 1, block.EdgeConnections{
		North: []block.EdgeConnection{{Net: "PWR_RAIL", Offset: 10}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 0, GridY: 1},
	}

	wires := Interconnect(placed)
	require.Len(t, wires, 1)

	w := wires[0]
	require.Len(t, w.Wire.Points, 2)
	// Shared edge at y=12.7
	assert.InDelta(t, 10.0, w.Wire.Points[0].X, 1e-9)
	assert.InDelta(t, 11.7, w.Wire.Points[0].Y, 1e-9)
	assert.InDelta(t, 10.0, w.Wire.Points[1].X, 1e-9)
	assert.InDelta(t, 13.7, w.Wire.Points[1].Y, 1e-9)
}

func TestInterconnectNoDuplicateForOneAdjacency(t *testing.T) {
	// Both blocks declare both sides; the east/south-only scan must
	// still produce exactly one wire for the shared edge
	a := edgeBlock("a", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 1, GridY: 0},
	}

	wires := Interconnect(placed)
	assert.Len(t, wires, 1)
}

func TestInterconnectTwoNeighborsOnOneEdge(t *testing.T) {
	// A tall block facing two different neighbors along its east edge
	// connects to both
	a := edgeBlock("a", 1, 2, block.EdgeConnections{
		East: []block.EdgeConnection{
			{Net: "BUS_SDA", Offset: 5},
			{Net: "BUS_SCL", Offset: 18},
		},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})
	c := edgeBlock("c", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SCL", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 1, GridY: 0},
		{Definition: c, GridX: 1, GridY: 1},
	}

	wires := Interconnect(placed)
	require.Len(t, wires, 2)

	nets := map[string]string{}
	for _, w := range wires {
		nets[w.Net] = w.To
	}
	assert.Equal(t, "b", nets["BUS_SDA"])
	assert.Equal(t, "c", nets["BUS_SCL"])
}

func TestInterconnectTallNeighborMatchedOnce(t *testing.T) {
	// A neighbor spanning several of the block's edge rows is matched
	// exactly once
	a := edgeBlock("a", 1, 2, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})
	b := edgeBlock("b", 1, 2, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 1, GridY: 0},
	}

	assert.Len(t, Interconnect(placed), 1)
}

func TestInterconnectTwoNeighborsBelow(t *testing.T) {
	// The south scan also reaches every neighbor along the bottom row
	a := edgeBlock("a", 2, 1, block.EdgeConnections{
		South: []block.EdgeConnection{
			{Net: "GND", Offset: 5},
			{Net: "PWR_RAIL", Offset: 18},
		},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		North: []block.EdgeConnection{{Net: "GND", Offset: 5}},
	})
	c := edgeBlock("c", 1, 1, block.EdgeConnections{
		North: []block.EdgeConnection{{Net: "PWR_RAIL", Offset: 5}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 0, GridY: 0},
		{Definition: b, GridX: 0, GridY: 1},
		{Definition: c, GridX: 1, GridY: 1},
	}

	wires := Interconnect(placed)
	require.Len(t, wires, 2)
}

func TestInterconnectOffsetFromBlockOrigin(t *testing.T) {
	// Blocks away from the origin: offsets are relative to each
	// block's own grid position
	a := edgeBlock("a", 1, 1, block.EdgeConnections{
		East: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 3}},
	})
	b := edgeBlock("b", 1, 1, block.EdgeConnections{
		West: []block.EdgeConnection{{Net: "BUS_SDA", Offset: 3}},
	})

	placed := []block.Placed{
		{Definition: a, GridX: 2, GridY: 1},
		{Definition: b, GridX: 3, GridY: 1},
	}

	wires := Interconnect(placed)
	require.Len(t, wires, 1)

	w := wires[0]
	assert.InDelta(t, 3*GridUnit-1.0, w.Wire.Points[0].X, 1e-9)
	assert.InDelta(t, 1*GridUnit+3.0, w.Wire.Points[0].Y, 1e-9)
	assert.InDelta(t, 3*GridUnit+1.0, w.Wire.Points[1].X, 1e-9)
	assert.InDelta(t, 1*GridUnit+3.0, w.Wire.Points[1].Y, 1e-9)
}
