package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/shell"
	"github.com/byterings/benv/internal/ui"
)

var useCmd = &cobra.Command{
	Use:   "use <category> [config]",
	Short: "Activate a configuration for a category",
	Long: `Activate a configuration's payload and record it as the category's
current selection. Without a config argument, pick one from a numbered
list of the category's configurations.`,
	Args: cobra.RangeArgs(1, 2),
	Example: `  benv use network office    # Direct
  benv use network           # Pick from a numbered list`,
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	category := args[0]

	var name string
	if len(args) == 2 {
		name = args[1]
	} else {
		configs, err := reg.Configurations(category)
		if err != nil {
			if errors.Is(err, registry.ErrCategoryNotFound) {
				return fmt.Errorf("%w\nRun: benv list", err)
			}
			return err
		}
		if len(configs) == 0 {
			ui.Info(fmt.Sprintf("No configurations in '%s', nothing to activate", category))
			fmt.Println("\nA configuration is a directory containing an 'activate' file.")
			return nil
		}

		name, err = ui.SelectNumbered(cmd.InOrStdin(), cmd.OutOrStdout(), category, configs)
		if err != nil {
			return err
		}
	}

	activator := shell.NewSourcingActivator(cfg.EffectiveShell())
	if err := reg.Activate(category, name, activator); err != nil {
		switch {
		case errors.Is(err, registry.ErrCategoryNotFound):
			return fmt.Errorf("%w\nRun: benv list", err)
		case errors.Is(err, registry.ErrConfigNotFound):
			return fmt.Errorf("%w\nRun: benv list %s", err, category)
		}
		return err
	}

	ui.Success(fmt.Sprintf("Activated %s=%s", category, name))

	// Inside a hooked shell the wrapper re-evals the export script, so the
	// new selection is already live there.
	if os.Getenv("BENV_HOOK") == "" {
		fmt.Println("\nApply in this shell: eval \"$(benv export)\"")
		fmt.Println("Install the hook:    benv hook --install")
	}

	return nil
}
