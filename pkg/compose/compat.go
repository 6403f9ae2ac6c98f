package compose

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

// currentTol absorbs float noise when comparing milliamp budgets.
const currentTol = 1e-9

// Report is the outcome of a design-rule check over a set of block
// definitions. Errors block composition; warnings are advisory.
type Report struct {
	Compatible bool
	Errors     []string
	Warnings   []string
}

// Check runs all design-rule checks over the given block definitions.
// It is a pure function: no placement is needed, no state is kept, and
// the same input always yields the same report. Pairwise conflicts are
// scanned explicitly in O(n^2); composition sizes are tens of blocks.
func Check(defs []*block.Definition) Report {
	var r Report

	for i := 0; i < len(defs); i++ {
		for j := i + 1; j < len(defs); j++ {
			checkPair(&r, defs[i], defs[j])
		}
	}

	checkPower(&r, defs)

	if len(defs) > 0 && !hasController(defs) {
		r.Errors = append(r.Errors, "no controller block selected")
	}

	r.Compatible = len(r.Errors) == 0
	return r
}

func hasController(defs []*block.Definition) bool {
	for _, def := range defs {
		if def.IsController() {
			return true
		}
	}
	return false
}

func checkPair(r *Report, a, b *block.Definition) {
	// Address conflicts on the same bus
	for _, aa := range a.Bus.Addresses {
		for _, ba := range b.Bus.Addresses {
			if aa.Bus != ba.Bus || aa.Address != ba.Address {
				continue
			}
			if aa.Configurable || ba.Configurable {
				r.Errors = append(r.Errors, fmt.Sprintf(
					"%s and %s both use %s address 0x%02X; the address is configurable, adjust one and retry",
					a.Slug, b.Slug, aa.Bus, aa.Address))
			} else {
				r.Errors = append(r.Errors, fmt.Sprintf(
					"%s and %s both use fixed %s address 0x%02X; cannot combine",
					a.Slug, b.Slug, aa.Bus, aa.Address))
			}
		}
	}

	// Claimed digital pins
	for _, ap := range a.Bus.Pins {
		for _, bp := range b.Bus.Pins {
			if ap == bp {
				r.Errors = append(r.Errors, fmt.Sprintf(
					"%s and %s both claim pin %s", a.Slug, b.Slug, ap))
			}
		}
	}

	// Chip select
	if a.Bus.ChipSelect != "" && a.Bus.ChipSelect == b.Bus.ChipSelect {
		r.Errors = append(r.Errors, fmt.Sprintf(
			"%s and %s share chip-select pin %s", a.Slug, b.Slug, a.Bus.ChipSelect))
	}
}

// checkPower aggregates provided and required current per rail and
// flags missing providers and budget violations.
func checkPower(r *Report, defs []*block.Definition) {
	provided := make(map[string]float64) // rail -> max mA available
	providers := make(map[string]int)
	requiredTyp := make(map[string]float64)
	requiredMax := make(map[string]float64)

	for _, def := range defs {
		for _, rail := range def.Bus.Provides {
			providers[rail.Rail]++
			if rail.MaxMA > provided[rail.Rail] {
				provided[rail.Rail] = rail.MaxMA
			}
		}
		for _, rail := range def.Bus.Requires {
			requiredTyp[rail.Rail] += rail.TypicalMA
			requiredMax[rail.Rail] += rail.MaxMA
		}
	}

	for rail, n := range providers {
		if n > 1 {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"rail %s has %d providers; two active supplies on one rail may conflict", rail, n))
		}
	}

	rails := make([]string, 0, len(requiredMax))
	for rail := range requiredMax {
		rails = append(rails, rail)
	}
	sort.Strings(rails)

	for _, rail := range rails {
		avail, ok := provided[rail]
		if !ok {
			r.Errors = append(r.Errors, fmt.Sprintf(
				"rail %s is required but no block provides it", rail))
			continue
		}
		if exceeds(requiredMax[rail], avail) {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"rail %s: required max %.0fmA exceeds available %.0fmA",
				rail, requiredMax[rail], avail))
		}
		if exceeds(requiredTyp[rail], 0.8*avail) {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"rail %s: typical draw %.0fmA is over 80%% of available %.0fmA",
				rail, requiredTyp[rail], avail))
		}
	}
}

// exceeds reports a > b beyond float tolerance
func exceeds(a, b float64) bool {
	return a > b && !scalar.EqualWithinAbs(a, b, currentTol)
}
