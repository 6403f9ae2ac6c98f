package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/compose"
)

var checkCmd = &cobra.Command{
	Use:   "check <slug>...",
	Short: "Run design-rule checks over a set of blocks",
	Long: `Check whether a set of blocks can legally share one board:
bus address conflicts, claimed pin collisions, chip-select collisions,
power budget, and the presence of a controller block.

Warnings are advisory; only errors block composition.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	report := compose.Check(defs)
	fmt.Print(renderReport(report))

	if !report.Compatible {
		return fmt.Errorf("%d blocking error(s)", len(report.Errors))
	}
	return nil
}
