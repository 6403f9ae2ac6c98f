package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/compose"
)

var placeCmd = &cobra.Command{
	Use:   "place <slug>...",
	Short: "Preview automatic grid placement",
	Long: `Run the grid placement planner over a set of blocks and show
the resulting layout. The controller anchors the origin; remaining
blocks pack first-fit in descending footprint area.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	defs, err := block.Resolve(cmd.Context(), reg, args)
	if err != nil {
		return err
	}

	planner := &compose.Planner{Bound: cfg.Compose.GridBound}
	placement := planner.Plan(defs)

	fmt.Println(styleTitle.Render("Placement"))
	fmt.Print(renderPlacement(placement))
	fmt.Println()
	fmt.Print(renderGrid(placement, cfg.Compose.GridBound))

	if len(placement.Unplaced) > 0 {
		return fmt.Errorf("%d block(s) did not fit the %dx%d grid",
			len(placement.Unplaced), cfg.Compose.GridBound, cfg.Compose.GridBound)
	}
	return nil
}
