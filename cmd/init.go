package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/platform"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize benv configuration",
	Long: `Initialize benv by creating the configuration directory and the
contexts root. This is optional - benv will auto-initialize on first use.

Categories and configurations are never created by benv itself; lay them
out under the contexts root with mkdir.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if already initialized
	exists, err := config.ConfigExists()
	if err != nil {
		return fmt.Errorf("failed to check config: %w", err)
	}

	if exists {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("benv is already initialized at: %s\n", configDir)
		return nil
	}

	// Create config directory
	if err := config.CreateConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create backup directory
	if err := config.CreateBackupDir(); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Create default config
	cfg := config.NewConfig()
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Create the contexts root so the first mkdir works under it
	root, err := cfg.ContextsRoot()
	if err != nil {
		return err
	}
	if err := platform.MkdirSecure(root); err != nil {
		return fmt.Errorf("failed to create contexts root: %w", err)
	}

	configDir, _ := config.GetConfigDir()
	fmt.Printf("✓ benv initialized at: %s\n", configDir)
	fmt.Printf("\nContexts root: %s\n", root)
	fmt.Println("\nNext steps:")
	fmt.Printf("  mkdir -p %s/network/office\n", root)
	fmt.Printf("  %s %s/network/office/activate\n", platform.GetEditorSuggestion(), root)
	fmt.Println("  benv use network office")

	return nil
}
