package compose

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

// Reserved net names every board carries, in id order.
var reservedNets = []string{"GND", "+3V3", "+5V"}

// NetTable maps canonical board-wide net names to numeric identifiers.
// Ids are assigned sequentially: reserved names first, then every
// distinct tap name in block order.
type NetTable struct {
	ids   map[string]int
	names []string
}

// NetAssignment binds a block-local net name to its board-wide global
// net. Local and global names coincide once the tap is registered, but
// firmware pin mapping consumes the binding record, so one is emitted
// for every tap regardless.
type NetAssignment struct {
	Local  string
	Global string
	Slug   string
}

// NewNetTable creates a net table seeded with the reserved names.
func NewNetTable() *NetTable {
	t := &NetTable{ids: make(map[string]int)}
	for _, name := range reservedNets {
		t.Register(name)
	}
	return t
}

// Register inserts a net name if not already present and returns its id.
func (t *NetTable) Register(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// ID returns the identifier for a net name.
func (t *NetTable) ID(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Names returns all registered net names in id order.
func (t *NetTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of registered nets.
func (t *NetTable) Len() int {
	return len(t.names)
}

// UnifyNets builds the global net table for a composition and emits
// the per-block net assignments. Blocks are visited in placement order
// so table ids and assignment order are stable across runs.
func UnifyNets(placed []block.Placed) (*NetTable, []NetAssignment) {
	table := NewNetTable()
	var assignments []NetAssignment

	for _, pb := range placed {
		for _, tap := range pb.Definition.Bus.Taps {
			table.Register(tap.Net)
			assignments = append(assignments, NetAssignment{
				Local:  tap.Net,
				Global: tap.Net,
				Slug:   pb.Definition.Slug,
			})
		}
	}

	return table, assignments
}

// SortAssignments orders net assignments by slug then local name, for
// stable display output.
func SortAssignments(assignments []NetAssignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Slug != assignments[j].Slug {
			return assignments[i].Slug < assignments[j].Slug
		}
		return assignments[i].Local < assignments[j].Local
	})
}
