// Package cmd implements the otb command-line interface.
package cmd

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBlocks/internal/config"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/cache"
)

var (
	// Global flags
	verbose    bool
	configPath string
	registry   string
)

var rootCmd = &cobra.Command{
	Use:   "otb",
	Short: "OpenTraceBlocks - compose KiCad boards from reusable circuit blocks",
	Long: `OpenTraceBlocks (otb) assembles printed-circuit boards from a library
of pre-validated circuit blocks: it places blocks on a half-inch grid,
checks bus and power compatibility, merges the per-block schematics
into one document, and wires adjacent blocks together.

Examples:
  otb blocks list                           # List available blocks
  otb blocks info bme280-sensor             # Show one block in detail
  otb check pico-controller bme280-sensor   # Run design-rule checks
  otb place pico-controller bme280-sensor   # Preview grid placement
  otb compose pico-controller bme280-sensor -o board.kicad_sch`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
		cmd.SetContext(ctx)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default otb.toml)")
	rootCmd.PersistentFlags().StringVar(&registry, "registry", "", "block registry directory (overrides config)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if registry != "" {
		cfg.RegistryRoot = registry
	}
	return cfg, nil
}

// openRegistry builds the block registry named by the config.
func openRegistry(cfg *config.Config) (block.Registry, error) {
	reg, err := block.NewDirRegistry(cfg.RegistryRoot)
	if err != nil {
		return nil, fmt.Errorf("open registry %s: %w", cfg.RegistryRoot, err)
	}
	return reg, nil
}

// openCache builds the source cache named by the config. A missing
// cache dir disables caching.
func openCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}
