package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/registry"
)

var showCmd = &cobra.Command{
	Use:   "show [category]",
	Short: "Show the current selections",
	Long: `Print recorded selections as category=config lines, one per category.
With a category argument, print only that category's selection.

Output is plain so it can be consumed by scripts; stale entries are
reported by 'benv doctor', not here.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		category := args[0]
		current, err := reg.Current(category)
		if err != nil {
			if errors.Is(err, registry.ErrNoContextSet) {
				fmt.Printf("No context set for '%s'\n", category)
				fmt.Printf("\nSet one with: benv use %s\n", category)
				return nil
			}
			return err
		}

		fmt.Printf("%s=%s\n", category, current)
		return nil
	}

	selections, err := reg.Selections()
	if err != nil {
		return err
	}

	if len(selections) == 0 {
		fmt.Println("No contexts set")
		fmt.Println("\nSet one with: benv use <category>")
		return nil
	}

	for _, sel := range selections {
		fmt.Printf("%s=%s\n", sel.Category, sel.Config)
	}

	return nil
}
