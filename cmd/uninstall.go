package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/shell"
	"github.com/byterings/benv/internal/ui"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Safely remove benv from your shells and home directory",
	Long: `Safely uninstall benv by:
1. Removing benv-managed sections from shell startup files
2. Removing benv configuration (~/.benv)

The contexts tree with your activation payloads is left in place unless
--purge is given.`,
	Example: `  # Uninstall, keeping the contexts tree
  benv uninstall

  # Remove everything including payloads
  benv uninstall --purge

  # After running this command, manually delete the binary:
  # sudo rm /usr/local/bin/benv`,
	RunE: runUninstall,
}

var (
	uninstallPurge bool
	uninstallForce bool
)

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "Also delete the contexts tree and its payloads")
	uninstallCmd.Flags().BoolVar(&uninstallForce, "force", false, "Skip confirmation prompt")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	fmt.Println("benv Uninstall")
	fmt.Println("==============")
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := cfg.ContextsRoot()
	if err != nil {
		return err
	}

	if !uninstallForce {
		fmt.Println("This will:")
		fmt.Println("  1. Remove benv-managed sections from shell startup files")
		fmt.Println("  2. Remove benv configuration (~/.benv)")
		if uninstallPurge {
			fmt.Printf("  3. Delete the contexts tree (%s)\n", root)
		} else {
			fmt.Printf("\nThe contexts tree (%s) is kept.\n", root)
		}
		fmt.Println()

		confirmed, err := ui.PromptConfirmation("Continue?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Operation cancelled.")
			return nil
		}
		fmt.Println()
	}

	fmt.Println("Step 1: Removing shell hooks...")
	for _, shellType := range shell.SupportedShells() {
		rcPath, removed, err := shell.RemoveHook(shellType)
		if err != nil {
			ui.Error(fmt.Sprintf("Failed to clean %s: %v", rcPath, err))
			continue
		}
		if removed {
			ui.Success(fmt.Sprintf("Hook removed from %s", rcPath))
		}
	}
	fmt.Println()

	// Removing the hooks backs profiles up into ~/.benv/backups, so the
	// config dir goes last
	fmt.Println("Step 2: Removing benv configuration...")
	configDir, err := config.GetConfigDir()
	if err == nil {
		if err := removeConfigDir(configDir, root); err != nil {
			ui.Error(fmt.Sprintf("Failed to remove config: %v", err))
		} else {
			ui.Success(fmt.Sprintf("Removed %s", configDir))
		}
	}
	fmt.Println()

	if uninstallPurge {
		fmt.Println("Step 3: Deleting contexts tree...")
		if err := os.RemoveAll(root); err != nil {
			ui.Error(fmt.Sprintf("Failed to delete contexts tree: %v", err))
		} else {
			ui.Success(fmt.Sprintf("Deleted %s", root))
		}
		fmt.Println()
	} else {
		fmt.Printf("Contexts tree kept at: %s\n\n", root)
	}

	ui.Success("benv uninstall complete!")
	fmt.Println()
	fmt.Println("Final step - manually remove the benv binary:")
	fmt.Println("  sudo rm /usr/local/bin/benv")
	fmt.Println()

	return nil
}

// removeConfigDir deletes the config directory but spares the contexts
// tree when it lives inside it and --purge was not given.
func removeConfigDir(configDir, contextsRoot string) error {
	if uninstallPurge || !isWithin(configDir, contextsRoot) {
		return os.RemoveAll(configDir)
	}

	entries, err := os.ReadDir(configDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(configDir, entry.Name())
		if isWithin(path, contextsRoot) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return nil
}

// isWithin reports whether child equals parent or lies underneath it.
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
