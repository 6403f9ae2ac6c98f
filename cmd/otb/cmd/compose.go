package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBlocks/internal/config"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/compose"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/kicad/schematic"
)

var (
	composeOut          string
	composeProject      string
	composeAt           []string
	composeAllowPartial bool
	composeSkipCheck    bool
)

var composeCmd = &cobra.Command{
	Use:   "compose <slug>...",
	Short: "Compose blocks into one board schematic",
	Long: `Run the full composition pipeline: design-rule checks, grid
placement, schematic merge, net unification, and interconnect wiring.
The merged document is written as a .kicad_sch file.

Manual placement overrides skip the planner for the named blocks:
  otb compose pico-controller bme280-sensor --at bme280-sensor:2,0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().StringVarP(&composeOut, "out", "o", "board.kicad_sch", "output schematic file")
	composeCmd.Flags().StringVarP(&composeProject, "project", "p", "", "project name for the title block")
	composeCmd.Flags().StringArrayVar(&composeAt, "at", nil, "manual placement slug:x,y (repeatable)")
	composeCmd.Flags().BoolVar(&composeAllowPartial, "allow-partial", false, "accept a merge with skipped blocks")
	composeCmd.Flags().BoolVar(&composeSkipCheck, "skip-check", false, "skip design-rule checks")
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	defs, err := block.Resolve(ctx, reg, args)
	if err != nil {
		return err
	}

	if !composeSkipCheck {
		report := compose.Check(defs)
		fmt.Print(renderReport(report))
		if !report.Compatible {
			return fmt.Errorf("blocks are incompatible")
		}
	}

	placed, err := placeBlocks(cfg.Compose.GridBound, defs)
	if err != nil {
		return err
	}

	c, err := buildComposer(cfg, reg, logger)
	if err != nil {
		return err
	}

	project := composeProject
	if project == "" {
		project = cfg.Project
	}

	result, err := c.Compose(ctx, placed, project)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	switch result.Status {
	case compose.StatusFailed:
		return fmt.Errorf("no block schematic could be merged")
	case compose.StatusPartial:
		for _, sk := range result.Skipped {
			logger.Warn("block skipped", "slug", sk.Slug, "err", sk.Err)
		}
		if !composeAllowPartial {
			return fmt.Errorf("%d block(s) skipped; re-run with --allow-partial to accept", len(result.Skipped))
		}
	}

	if err := schematic.WriteFile(composeOut, result.Schematic); err != nil {
		return fmt.Errorf("write %s: %w", composeOut, err)
	}

	fmt.Println()
	fmt.Println(styleTitle.Render("Board"))
	fmt.Printf("  size: %.1f x %.1f mm\n", result.Size.WidthMM, result.Size.HeightMM)
	if bbox := result.Schematic.GetBoundingBox(); !bbox.IsEmpty() {
		fmt.Printf("  drawn extents: %.1f x %.1f mm\n", bbox.Width(), bbox.Height())
	}
	fmt.Printf("  nets: %d\n", result.Nets.Len())
	fmt.Printf("  schematic labels: %d\n", len(result.Schematic.GetLabels()))
	fmt.Printf("  interconnect wires: %d\n", len(result.Interconnect))
	fmt.Printf("  written: %s\n", composeOut)

	if len(result.Assignments) > 0 {
		fmt.Println()
		fmt.Println(styleTitle.Render("Net assignments"))
		compose.SortAssignments(result.Assignments)
		for _, a := range result.Assignments {
			fmt.Printf("  %-24s %-16s -> %s\n", a.Slug, a.Local, a.Global)
		}
	}

	return nil
}

// placeBlocks pins any --at overrides first, packs the remaining
// blocks around them, and validates the resulting layout.
func placeBlocks(bound int, defs []*block.Definition) ([]block.Placed, error) {
	overrides, err := parseOverrides(composeAt)
	if err != nil {
		return nil, err
	}

	var placed []block.Placed
	var auto []*block.Definition

	for _, def := range defs {
		if pos, ok := overrides[def.Slug]; ok {
			placed = append(placed, block.Placed{Definition: def, GridX: pos[0], GridY: pos[1]})
			delete(overrides, def.Slug)
			continue
		}
		auto = append(auto, def)
	}
	for slug := range overrides {
		return nil, fmt.Errorf("--at names unknown block %s", slug)
	}

	if len(auto) > 0 {
		planner := &compose.Planner{Bound: bound, Reserved: placed}
		result := planner.Plan(auto)
		if len(result.Unplaced) > 0 {
			return nil, fmt.Errorf("blocks did not fit the grid: %s", strings.Join(result.Unplaced, ", "))
		}
		placed = append(placed, result.Blocks...)
	}

	if conflicts := compose.Validate(placed); len(conflicts) > 0 {
		return nil, fmt.Errorf("placement overlap between: %s", strings.Join(conflicts, ", "))
	}

	return placed, nil
}

// parseOverrides parses repeated slug:x,y flags.
func parseOverrides(specs []string) (map[string][2]int, error) {
	overrides := make(map[string][2]int)

	for _, s := range specs {
		slug, coords, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("bad --at value %q (want slug:x,y)", s)
		}
		xs, ys, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("bad --at value %q (want slug:x,y)", s)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("bad --at x in %q: %w", s, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("bad --at y in %q: %w", s, err)
		}
		if x < 0 || y < 0 {
			return nil, fmt.Errorf("--at coordinates must be non-negative in %q", s)
		}
		overrides[slug] = [2]int{x, y}
	}

	return overrides, nil
}

// buildComposer wires the composer from config.
func buildComposer(cfg *config.Config, reg block.Registry, logger *log.Logger) (*compose.Composer, error) {
	c, err := openCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}

	composer := compose.NewComposer(reg, c, logger)
	composer.Concurrency = cfg.Compose.FetchConcurrency
	composer.Retries = cfg.Compose.FetchRetries
	composer.CacheTTL = ttl
	return composer, nil
}
