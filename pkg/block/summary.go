package block

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable description of one block definition,
// suitable for terminal display or inclusion in generated documentation.
func Summary(def *Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Block: %s (%s)\n", def.Name, def.Slug)
	fmt.Fprintf(&b, "Category: %s\n", def.Category)
	fmt.Fprintf(&b, "Footprint: %dx%d grid units (%.1fx%.1f mm)\n",
		def.Width, def.Height,
		float64(def.Width)*12.7, float64(def.Height)*12.7)

	if len(def.Bus.Provides) > 0 {
		b.WriteString("Provides:\n")
		for _, rail := range def.Bus.Provides {
			fmt.Fprintf(&b, "  %s: %.0fmA typical, %.0fmA max\n", rail.Rail, rail.TypicalMA, rail.MaxMA)
		}
	}

	if len(def.Bus.Requires) > 0 {
		b.WriteString("Requires:\n")
		for _, rail := range def.Bus.Requires {
			fmt.Fprintf(&b, "  %s: %.1fmA typical, %.1fmA max\n", rail.Rail, rail.TypicalMA, rail.MaxMA)
		}
	}

	if len(def.Bus.Addresses) > 0 {
		b.WriteString("Bus addresses:\n")
		for _, addr := range def.Bus.Addresses {
			note := "fixed"
			if addr.Configurable {
				note = "configurable"
			}
			fmt.Fprintf(&b, "  %s 0x%02X (%s)\n", addr.Bus, addr.Address, note)
		}
	}

	if def.Bus.ChipSelect != "" {
		fmt.Fprintf(&b, "Chip select: %s\n", def.Bus.ChipSelect)
	}

	if len(def.Bus.Pins) > 0 {
		fmt.Fprintf(&b, "Claimed pins: %s\n", strings.Join(def.Bus.Pins, ", "))
	}

	if len(def.Bus.Taps) > 0 {
		nets := make([]string, len(def.Bus.Taps))
		for i, tap := range def.Bus.Taps {
			nets[i] = tap.Net
		}
		fmt.Fprintf(&b, "Bus taps: %s\n", strings.Join(nets, ", "))
	}

	for _, edge := range []Edge{EdgeNorth, EdgeEast, EdgeSouth, EdgeWest} {
		entries := def.Edges.List(edge)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Edge %s:\n", edge)
		for _, entry := range entries {
			fmt.Fprintf(&b, "  %s at %.2fmm on %s\n", entry.Net, entry.Offset, entry.Layer)
		}
	}

	if len(def.Components) > 0 {
		fmt.Fprintf(&b, "Components (%d):\n", len(def.Components))
		for _, comp := range def.Components {
			fmt.Fprintf(&b, "  %s: %s (%s)\n", comp.Reference, comp.Value, comp.Footprint)
		}
	}

	return b.String()
}
