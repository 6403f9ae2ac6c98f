package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block/filter"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Block registry operations",
	Long:  `Commands for listing and inspecting blocks in the registry`,
}

var blocksFilter string

var blocksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available blocks",
	Long: `List all blocks in the registry.

The --filter flag takes a small expression language:
  otb blocks list --filter 'category == "sensor"'
  otb blocks list --filter 'provides("+3V3") && !controller()'
  otb blocks list --filter 'pin("BUS_SDA") || tap("GPIO4")'`,
	Args: cobra.NoArgs,
	RunE: runBlocksList,
}

var blocksInfoCmd = &cobra.Command{
	Use:   "info <slug>",
	Short: "Show block details",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksInfo,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.AddCommand(blocksListCmd)
	blocksCmd.AddCommand(blocksInfoCmd)

	blocksListCmd.Flags().StringVarP(&blocksFilter, "filter", "f", "", "filter expression")
}

func runBlocksList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	defs, err := reg.Definitions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list blocks: %w", err)
	}

	match := func(*block.Definition) bool { return true }
	if blocksFilter != "" {
		match, err = filter.Compile(blocksFilter)
		if err != nil {
			return fmt.Errorf("bad filter: %w", err)
		}
	}

	shown := 0
	for _, def := range defs {
		if !match(def) {
			continue
		}
		shown++
		fmt.Printf("%-24s %-12s %dx%d  %s\n",
			def.Slug, def.Category, def.Width, def.Height, def.Name)
	}
	fmt.Println(styleDim.Render(fmt.Sprintf("%d of %d blocks", shown, len(defs))))

	return nil
}

func runBlocksInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	def, err := reg.Definition(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(styleTitle.Render(def.Name))
	fmt.Print(block.Summary(def))
	return nil
}
