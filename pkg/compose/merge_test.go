package compose

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/sexp"
)

const controllerSource = `(kicad_sch
  (version 20250114)
  (generator "eeschema")
  (uuid "11111111-1111-1111-1111-111111111111")
  (paper "A4")
  (symbol
    (lib_id "MCU:RP2040")
    (at 10 10 0)
    (uuid "21111111-1111-1111-1111-111111111111")
    (property "Reference" "U1" (at 10 5 0))
  )
  (wire
    (pts (xy 5 5) (xy 15 5))
    (uuid "31111111-1111-1111-1111-111111111111")
  )
)`

const sensorSource = `(kicad_sch
  (version 20250114)
  (generator "eeschema")
  (uuid "22222222-2222-2222-2222-222222222222")
  (paper "A4")
  (symbol
    (lib_id "Sensor:BME280")
    (at 6 6 0)
    (uuid "42222222-2222-2222-2222-222222222222")
    (property "Reference" "U1" (at 6 3 0))
  )
)`

func testRegistry(t *testing.T) (*block.StaticRegistry, []block.Placed) {
	t.Helper()

	controller := controllerDef()
	sensor := sensorDef("bme280")

	reg := block.NewStaticRegistry()
	reg.Add(controller, []byte(controllerSource))
	reg.Add(sensor, []byte(sensorSource))

	placed := []block.Placed{
		{Definition: controller, GridX: 0, GridY: 0},
		{Definition: sensor, GridX: 2, GridY: 0},
	}
	return reg, placed
}

func quietComposer(reg block.Registry) *Composer {
	return NewComposer(reg, nil, log.New(io.Discard))
}

func TestComposeComplete(t *testing.T) {
	reg, placed := testRegistry(t)
	c := quietComposer(reg)

	result, err := c.Compose(context.Background(), placed, "weather-station")
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, result.Status)
	assert.Empty(t, result.Skipped)

	// 2x2 controller at (0,0) and 1x1 sensor at (2,0)
	assert.InDelta(t, 38.1, result.Size.WidthMM, 1e-9)
	assert.InDelta(t, 25.4, result.Size.HeightMM, 1e-9)

	require.NotNil(t, result.Schematic)
	assert.Equal(t, "weather-station", result.Schematic.TitleBlock.Title)
	require.Len(t, result.Schematic.Symbols, 2)
	require.Len(t, result.Schematic.Wires, 1)

	// Controller merges unshifted; sensor shifts by 2 grid units
	assert.InDelta(t, 10.0, result.Schematic.Symbols[0].Position.X, 1e-9)
	assert.InDelta(t, 6.0+2*GridUnit, result.Schematic.Symbols[1].Position.X, 1e-9)
	assert.InDelta(t, 6.0, result.Schematic.Symbols[1].Position.Y, 1e-9)
}

func TestComposeDocumentWithinBoardSize(t *testing.T) {
	reg, placed := testRegistry(t)
	c := quietComposer(reg)

	result, err := c.Compose(context.Background(), placed, "weather-station")
	require.NoError(t, err)

	// Every drawn element lies inside the reported board outline
	bbox := result.Schematic.GetBoundingBox()
	require.False(t, bbox.IsEmpty())
	assert.GreaterOrEqual(t, bbox.Min.X, 0.0)
	assert.GreaterOrEqual(t, bbox.Min.Y, 0.0)
	assert.LessOrEqual(t, bbox.Max.X, result.Size.WidthMM)
	assert.LessOrEqual(t, bbox.Max.Y, result.Size.HeightMM)

	// The translated sensor symbol sits inside the drawn extents
	assert.True(t, bbox.Contains(sexp.Position{X: 6.0 + 2*GridUnit, Y: 6.0}))
}

func TestComposePartialOnMissingSource(t *testing.T) {
	controller := controllerDef()
	ghost := sensorDef("ghost")

	reg := block.NewStaticRegistry()
	reg.Add(controller, []byte(controllerSource))
	reg.Add(ghost, nil) // definition without schematic source

	placed := []block.Placed{
		{Definition: controller, GridX: 0, GridY: 0},
		{Definition: ghost, GridX: 2, GridY: 0},
	}

	c := quietComposer(reg)
	result, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, result.Status)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "ghost", result.Skipped[0].Slug)
	assert.ErrorIs(t, result.Skipped[0].Err, block.ErrNoSource)

	// Skipped geometry is excluded but board size still covers it
	assert.Len(t, result.Schematic.Symbols, 1)
	assert.InDelta(t, 38.1, result.Size.WidthMM, 1e-9)
}

func TestComposeFailedWhenNothingMerges(t *testing.T) {
	ghost := sensorDef("ghost")
	reg := block.NewStaticRegistry()
	reg.Add(ghost, nil)

	placed := []block.Placed{{Definition: ghost}}

	c := quietComposer(reg)
	result, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	require.Len(t, result.Skipped, 1)
}

func TestComposeDeterministicOrder(t *testing.T) {
	// Many blocks so the fetch fan-out actually interleaves
	reg := block.NewStaticRegistry()
	var placed []block.Placed

	controller := controllerDef()
	reg.Add(controller, []byte(controllerSource))
	placed = append(placed, block.Placed{Definition: controller})

	for i := 0; i < 8; i++ {
		def := sensorDef(fmt.Sprintf("sensor-%d", i))
		source := fmt.Sprintf(`(kicad_sch
  (version 20250114)
  (uuid "%08d-0000-0000-0000-000000000000")
  (symbol (lib_id "Sensor:S%d") (at 1 1 0))
)`, i, i)
		reg.Add(def, []byte(source))
		placed = append(placed, block.Placed{Definition: def, GridX: 2 + i, GridY: 0})
	}

	c := quietComposer(reg)

	first, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)
	second, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)

	require.Equal(t, len(first.Schematic.Symbols), len(second.Schematic.Symbols))
	for i := range first.Schematic.Symbols {
		assert.Equal(t, first.Schematic.Symbols[i].LibID, second.Schematic.Symbols[i].LibID)
		assert.Equal(t, first.Schematic.Symbols[i].Position, second.Schematic.Symbols[i].Position)
	}
}

func TestComposeCancellation(t *testing.T) {
	reg, placed := testRegistry(t)
	c := quietComposer(reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compose(ctx, placed, "test")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeEmitsNetAssignments(t *testing.T) {
	reg, placed := testRegistry(t)
	placed[0].Definition.Bus.Taps = []block.Tap{{Net: "BUS_SDA"}}
	placed[1].Definition.Bus.Taps = []block.Tap{{Net: "BUS_SDA"}}

	c := quietComposer(reg)
	result, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	id, ok := result.Nets.ID("BUS_SDA")
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestComposeAddsInterconnectWires(t *testing.T) {
	controller := controllerDef()
	controller.Edges.East = []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}}
	sensor := sensorDef("bme280")
	sensor.Edges.West = []block.EdgeConnection{{Net: "BUS_SDA", Offset: 5}}

	reg := block.NewStaticRegistry()
	reg.Add(controller, []byte(controllerSource))
	reg.Add(sensor, []byte(sensorSource))

	placed := []block.Placed{
		{Definition: controller, GridX: 0, GridY: 0},
		{Definition: sensor, GridX: 2, GridY: 0},
	}

	c := quietComposer(reg)
	result, err := c.Compose(context.Background(), placed, "test")
	require.NoError(t, err)

	require.Len(t, result.Interconnect, 1)
	// One wire from the controller source plus one synthesized
	assert.Len(t, result.Schematic.Wires, 2)
}

func TestBoardSizeIgnoresPlacementOrder(t *testing.T) {
	a := block.Placed{Definition: controllerDef(), GridX: 3, GridY: 0}
	b := block.Placed{Definition: sensorDef("s"), GridX: 0, GridY: 4}

	size := boardSize([]block.Placed{a, b})
	assert.InDelta(t, float64(3+2)*GridUnit, size.WidthMM, 1e-9)
	assert.InDelta(t, float64(4+1)*GridUnit, size.HeightMM, 1e-9)

	size = boardSize([]block.Placed{b, a})
	assert.InDelta(t, float64(3+2)*GridUnit, size.WidthMM, 1e-9)
}
