// Package compose implements the block composition engine: grid
// placement, design-rule checking, net unification, interconnect
// synthesis, and the schematic merge that turns a set of placed blocks
// into one board-level document.
package compose

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

// DefaultGridBound is the side length of the placement scan window in
// grid cells.
const DefaultGridBound = 10

// Placement is the result of auto-placing a set of blocks. Blocks that
// did not fit inside the scan window are listed in Unplaced rather than
// silently dropped.
type Placement struct {
	Blocks   []block.Placed
	Unplaced []string // slugs that did not fit
}

// Planner assigns grid positions to blocks.
type Planner struct {
	// Bound is the side length of the square scan window in grid
	// cells. Zero means DefaultGridBound.
	Bound int

	// Reserved holds blocks already pinned to fixed positions, for
	// example by manual placement overrides. Their cells are excluded
	// from the scan so auto-placed blocks pack around them.
	Reserved []block.Placed
}

// Plan places the given blocks on the grid with no cell overlap.
// The controller block (if any) anchors the layout and is placed
// first; the rest follow in descending footprint area. Each block
// takes the first free top-left position in a row-major scan of the
// window. Output is deterministic for a fixed input list.
func (p *Planner) Plan(defs []*block.Definition) Placement {
	bound := p.Bound
	if bound <= 0 {
		bound = DefaultGridBound
	}

	ordered := make([]*block.Definition, len(defs))
	copy(ordered, defs)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := ordered[i].IsController(), ordered[j].IsController()
		if ci != cj {
			return ci
		}
		return ordered[i].Area() > ordered[j].Area()
	})

	occupied := make(map[[2]int]bool)
	for _, pb := range p.Reserved {
		for dy := 0; dy < pb.Definition.Height; dy++ {
			for dx := 0; dx < pb.Definition.Width; dx++ {
				occupied[[2]int{pb.GridX + dx, pb.GridY + dy}] = true
			}
		}
	}

	var result Placement

	for _, def := range ordered {
		x, y, ok := findFree(occupied, def.Width, def.Height, bound)
		if !ok {
			result.Unplaced = append(result.Unplaced, def.Slug)
			continue
		}
		for dy := 0; dy < def.Height; dy++ {
			for dx := 0; dx < def.Width; dx++ {
				occupied[[2]int{x + dx, y + dy}] = true
			}
		}
		result.Blocks = append(result.Blocks, block.Placed{
			Definition: def,
			GridX:      x,
			GridY:      y,
		})
	}

	return result
}

// findFree scans the window row-major for the first top-left position
// where a w x h block fits entirely inside the bound with no occupied
// cell.
func findFree(occupied map[[2]int]bool, w, h, bound int) (int, int, bool) {
	for y := 0; y+h <= bound; y++ {
		for x := 0; x+w <= bound; x++ {
			if fits(occupied, x, y, w, h) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func fits(occupied map[[2]int]bool, x, y, w, h int) bool {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if occupied[[2]int{x + dx, y + dy}] {
				return false
			}
		}
	}
	return true
}

// Validate checks a caller-supplied placement for cell overlap and
// returns the slugs of any blocks whose footprints intersect.
func Validate(placed []block.Placed) []string {
	owner := make(map[[2]int]string)
	conflicts := make(map[string]bool)

	for _, pb := range placed {
		for dy := 0; dy < pb.Definition.Height; dy++ {
			for dx := 0; dx < pb.Definition.Width; dx++ {
				cell := [2]int{pb.GridX + dx, pb.GridY + dy}
				if prev, taken := owner[cell]; taken {
					conflicts[prev] = true
					conflicts[pb.Definition.Slug] = true
					continue
				}
				owner[cell] = pb.Definition.Slug
			}
		}
	}

	if len(conflicts) == 0 {
		return nil
	}
	slugs := make([]string, 0, len(conflicts))
	for slug := range conflicts {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
