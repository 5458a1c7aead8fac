package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/envfile"
	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/ui"
)

var varCmd = &cobra.Command{
	Use:   "var",
	Short: "Manage exported variables in activation payloads",
	Long: `Commands to edit the 'export KEY=VALUE' lines of a configuration's
activation payload. Lines benv did not write are left untouched.`,
}

var varSetCmd = &cobra.Command{
	Use:   "set <category> <config> <KEY> [VALUE]",
	Short: "Set an exported variable in a payload",
	Long: `Set an exported variable in a configuration's activation payload.
Without VALUE, prompt for it interactively.`,
	Args: cobra.RangeArgs(3, 4),
	Example: `  benv var set network office HTTP_PROXY http://proxy:3128
  benv var set network office API_TOKEN     # Prompted`,
	RunE: runVarSet,
}

var varSaveCmd = &cobra.Command{
	Use:   "save <category> <config> <KEY>...",
	Short: "Capture variables from the current environment",
	Long: `Copy the current values of the given environment variables into a
configuration's activation payload.`,
	Args: cobra.MinimumNArgs(3),
	Example: `  export AWS_PROFILE=staging
  benv var save cloud staging AWS_PROFILE`,
	RunE: runVarSave,
}

var varUnsetCmd = &cobra.Command{
	Use:   "unset <category> <config> <KEY>...",
	Short: "Remove exported variables from a payload",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runVarUnset,
}

var varListCmd = &cobra.Command{
	Use:   "list <category> <config>",
	Short: "List the exported variables of a payload",
	Args:  cobra.ExactArgs(2),
	RunE:  runVarList,
}

func init() {
	rootCmd.AddCommand(varCmd)
	varCmd.AddCommand(varSetCmd)
	varCmd.AddCommand(varSaveCmd)
	varCmd.AddCommand(varUnsetCmd)
	varCmd.AddCommand(varListCmd)
}

// resolvePayload maps a category/config pair to its payload path, with
// hints for the not-found cases.
func resolvePayload(category, config string) (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return "", err
	}

	path, err := reg.PayloadPath(category, config)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrCategoryNotFound):
			return "", fmt.Errorf("%w\nRun: benv list", err)
		case errors.Is(err, registry.ErrConfigNotFound):
			return "", fmt.Errorf("%w\nRun: benv list %s", err, category)
		}
		return "", err
	}
	return path, nil
}

func runVarSet(cmd *cobra.Command, args []string) error {
	category, config, key := args[0], args[1], args[2]

	if !envfile.ValidKey(key) {
		return fmt.Errorf("invalid variable name: %q", key)
	}

	path, err := resolvePayload(category, config)
	if err != nil {
		return err
	}

	var value string
	if len(args) == 4 {
		value = args[3]
	} else {
		value, err = ui.PromptValue(
			fmt.Sprintf("Value for %s:", key),
			"Stored as an export line in the activation payload",
		)
		if err != nil {
			return err
		}
	}

	if err := envfile.Set(path, key, value); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Set %s in %s/%s", key, category, config))
	return nil
}

func runVarSave(cmd *cobra.Command, args []string) error {
	category, config := args[0], args[1]

	path, err := resolvePayload(category, config)
	if err != nil {
		return err
	}

	saved := 0
	for _, key := range args[2:] {
		if !envfile.ValidKey(key) {
			return fmt.Errorf("invalid variable name: %q", key)
		}

		value, ok := os.LookupEnv(key)
		if !ok {
			ui.Warning(fmt.Sprintf("%s is not set in the current environment, skipped", key))
			continue
		}

		if err := envfile.Set(path, key, value); err != nil {
			return err
		}
		saved++
	}

	if saved == 0 {
		ui.Info("Nothing saved")
		return nil
	}

	ui.Success(fmt.Sprintf("Saved %d variable(s) to %s/%s", saved, category, config))
	return nil
}

func runVarUnset(cmd *cobra.Command, args []string) error {
	category, config := args[0], args[1]

	path, err := resolvePayload(category, config)
	if err != nil {
		return err
	}

	removed, err := envfile.Unset(path, args[2:]...)
	if err != nil {
		return err
	}

	if removed == 0 {
		ui.Info("No matching variables found")
		return nil
	}

	ui.Success(fmt.Sprintf("Removed %d variable(s) from %s/%s", removed, category, config))
	return nil
}

func runVarList(cmd *cobra.Command, args []string) error {
	category, config := args[0], args[1]

	path, err := resolvePayload(category, config)
	if err != nil {
		return err
	}

	vars, err := envfile.List(path)
	if err != nil {
		return err
	}

	if len(vars) == 0 {
		ui.Info(fmt.Sprintf("No managed exports in %s/%s", category, config))
		return nil
	}

	for _, v := range vars {
		fmt.Printf("%s=%s\n", v.Key, v.Value)
	}

	return nil
}
