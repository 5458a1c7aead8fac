package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list [category]",
	Aliases: []string{"ls"},
	Short:   "List categories or a category's configurations",
	Long: `Without arguments, list every category in the contexts tree.
With a category, list its configurations and highlight the active one.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  benv list            # All categories
  benv list network    # Configurations in 'network'`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		categories, err := reg.Categories()
		if err != nil {
			return err
		}
		ui.PrintCategoriesList(categories, reg.Root())
		return nil
	}

	category := args[0]
	configs, err := reg.Configurations(category)
	if err != nil {
		if errors.Is(err, registry.ErrCategoryNotFound) {
			return fmt.Errorf("%w\nRun: benv list", err)
		}
		return err
	}

	// The active marker only makes sense when a selection exists
	active := ""
	if current, err := reg.Current(category); err == nil {
		active = current
	}

	ui.PrintConfigsList(category, configs, active)
	return nil
}
