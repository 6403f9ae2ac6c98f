// Package block defines the circuit block model: pre-validated, reusable
// circuit modules with a structured definition (footprint, power, bus
// interface, mounted components) and a KiCad schematic source document.
// Definitions are immutable inputs for the duration of one composition.
package block

// Category classifies a block's role on the board. Exactly one block of
// the Controller category anchors every composition.
type Category string

const (
	CategoryController   Category = "controller"
	CategoryPower        Category = "power"
	CategorySensor       Category = "sensor"
	CategoryActuator     Category = "actuator"
	CategoryDisplay      Category = "display"
	CategoryConnectivity Category = "connectivity"
	CategoryIO           Category = "io"
)

// Edge identifies one of a block's four compass-facing sides
type Edge string

const (
	EdgeNorth Edge = "north"
	EdgeEast  Edge = "east"
	EdgeSouth Edge = "south"
	EdgeWest  Edge = "west"
)

// PowerRail describes a power rail a block provides or requires.
// Currents are milliamps.
type PowerRail struct {
	Rail      string  `toml:"rail"`
	TypicalMA float64 `toml:"typical_ma"`
	MaxMA     float64 `toml:"max_ma"`
}

// BusAddress is an address a block claims on an addressable bus
// (e.g., a 7-bit I2C address). Configurable addresses can be moved by
// strapping pins or firmware; fixed ones cannot.
type BusAddress struct {
	Bus          string `toml:"bus"`
	Address      uint8  `toml:"address"`
	Configurable bool   `toml:"configurable"`
}

// Tap is a named local signal a block exposes to a shared multi-drop bus.
// The tap's net name is unified into the global net table during merge.
type Tap struct {
	Net string `toml:"net"`
}

// EdgeConnection declares a bus net on one of a block's edges.
// Offset is the lateral distance in millimeters along that edge from the
// block's grid origin; Layer names the copper layer carrying the net.
type EdgeConnection struct {
	Net    string  `toml:"net"`
	Offset float64 `toml:"offset_mm"`
	Layer  string  `toml:"layer"`
}

// Component is a part mounted on a block
type Component struct {
	Reference string `toml:"reference"`
	Value     string `toml:"value"`
	Footprint string `toml:"footprint"`
}

// BusInterface describes how a block attaches to the board-level buses
type BusInterface struct {
	Provides   []PowerRail  `toml:"provides"`
	Requires   []PowerRail  `toml:"requires"`
	Addresses  []BusAddress `toml:"address"`
	ChipSelect string       `toml:"chip_select"`
	Pins       []string     `toml:"pins"`
	Taps       []Tap        `toml:"taps"`
}

// EdgeConnections carries the per-edge bus declarations
type EdgeConnections struct {
	North []EdgeConnection `toml:"north"`
	East  []EdgeConnection `toml:"east"`
	South []EdgeConnection `toml:"south"`
	West  []EdgeConnection `toml:"west"`
}

// List returns the entries declared on the given edge
func (e EdgeConnections) List(edge Edge) []EdgeConnection {
	switch edge {
	case EdgeNorth:
		return e.North
	case EdgeEast:
		return e.East
	case EdgeSouth:
		return e.South
	case EdgeWest:
		return e.West
	}
	return nil
}

// Definition is a complete block definition as supplied by the registry
type Definition struct {
	Slug       string          `toml:"slug"`
	Name       string          `toml:"name"`
	Category   Category        `toml:"category"`
	Width      int             `toml:"width"`  // grid units, >= 1
	Height     int             `toml:"height"` // grid units, >= 1
	Bus        BusInterface    `toml:"bus"`
	Components []Component     `toml:"components"`
	Edges      EdgeConnections `toml:"edges"`
}

// Area returns the block's footprint in grid cells
func (d *Definition) Area() int {
	return d.Width * d.Height
}

// IsController reports whether the block carries the distinguished
// controller role
func (d *Definition) IsController() bool {
	return d.Category == CategoryController
}

// Placed is a block definition assigned to a grid position.
// Rotation is one of 0/90/180/270; only 0 is exercised by the merge
// geometry today.
type Placed struct {
	Definition *Definition
	GridX      int
	GridY      int
	Rotation   int
}

// Covers reports whether the placed block occupies grid cell (x, y)
func (p Placed) Covers(x, y int) bool {
	return x >= p.GridX && x < p.GridX+p.Definition.Width &&
		y >= p.GridY && y < p.GridY+p.Definition.Height
}
