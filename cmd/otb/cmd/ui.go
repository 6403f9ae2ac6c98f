package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/compose"
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorCyan   = lipgloss.Color("36")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

func renderError(err error) string {
	return styleError.Render("error: ") + err.Error()
}

// renderReport formats a compatibility report for terminal display.
func renderReport(r compose.Report) string {
	var b strings.Builder

	if r.Compatible {
		b.WriteString(styleSuccess.Render("✓ compatible"))
	} else {
		b.WriteString(styleError.Render("✗ incompatible"))
	}
	b.WriteString("\n")

	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  %s %s\n", styleError.Render("error:"), e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  %s %s\n", styleWarning.Render("warning:"), w)
	}

	return b.String()
}

// renderPlacement formats a placement as a per-block coordinate list.
func renderPlacement(p compose.Placement) string {
	var b strings.Builder

	for _, pb := range p.Blocks {
		fmt.Fprintf(&b, "  %-24s (%d,%d)  %dx%d\n",
			pb.Definition.Slug, pb.GridX, pb.GridY,
			pb.Definition.Width, pb.Definition.Height)
	}
	for _, slug := range p.Unplaced {
		fmt.Fprintf(&b, "  %-24s %s\n", slug, styleError.Render("unplaced"))
	}

	return b.String()
}

// renderGrid draws the occupied cells of a placement as ASCII art,
// one letter per block.
func renderGrid(p compose.Placement, bound int) string {
	if bound <= 0 {
		bound = compose.DefaultGridBound
	}

	letters := make(map[string]byte)
	for i, pb := range p.Blocks {
		letters[pb.Definition.Slug] = byte('A' + i%26)
	}

	maxX, maxY := 0, 0
	for _, pb := range p.Blocks {
		if x := pb.GridX + pb.Definition.Width; x > maxX {
			maxX = x
		}
		if y := pb.GridY + pb.Definition.Height; y > maxY {
			maxY = y
		}
	}

	var b strings.Builder
	for y := 0; y < maxY; y++ {
		b.WriteString("  ")
		for x := 0; x < maxX; x++ {
			cell := byte('.')
			for _, pb := range p.Blocks {
				if pb.Covers(x, y) {
					cell = letters[pb.Definition.Slug]
					break
				}
			}
			b.WriteByte(cell)
			b.WriteByte(' ')
		}
		b.WriteString("\n")
	}

	return b.String()
}
