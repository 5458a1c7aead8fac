package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/byterings/benv/internal/shell"
	"github.com/byterings/benv/internal/ui"
)

var (
	hookShell   string
	hookInstall bool
	hookRemove  bool
	hookYes     bool
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Print or install the shell startup hook",
	Long: `Print the hook that replays recorded selections when a shell starts
and after each successful benv command. With --install, write it into
the shell's startup file inside a managed section; the startup file is
backed up first.`,
	Args: cobra.NoArgs,
	Example: `  benv hook                  # Print for the current shell
  benv hook --install        # Install into the startup file
  benv hook --remove         # Remove the managed section`,
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.Flags().StringVar(&hookShell, "shell", "", "shell dialect: bash, zsh, fish or sh (default: autodetect)")
	hookCmd.Flags().BoolVar(&hookInstall, "install", false, "write the hook into the shell startup file")
	hookCmd.Flags().BoolVar(&hookRemove, "remove", false, "remove the managed section from the startup file")
	hookCmd.Flags().BoolVarP(&hookYes, "yes", "y", false, "skip the confirmation prompt")
}

func runHook(cmd *cobra.Command, args []string) error {
	if hookInstall && hookRemove {
		return fmt.Errorf("--install and --remove are mutually exclusive")
	}

	shellType, err := resolveShellType(hookShell)
	if err != nil {
		return err
	}

	// Plain invocation prints the snippet for manual setup
	if !hookInstall && !hookRemove {
		fmt.Print(shell.HookSnippet(shellType))
		return nil
	}

	if _, err := loadConfig(); err != nil {
		return err
	}

	rcPath, err := shell.RCPath(shellType)
	if err != nil {
		return err
	}

	if hookRemove {
		rcPath, removed, err := shell.RemoveHook(shellType)
		if err != nil {
			return fmt.Errorf("failed to remove hook: %w", err)
		}
		if !removed {
			ui.Info(fmt.Sprintf("No hook found in %s", rcPath))
			return nil
		}
		ui.Success(fmt.Sprintf("Hook removed from %s", rcPath))
		fmt.Println("\nRestart your shell for the change to take effect.")
		return nil
	}

	if !hookYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("stdin is not a terminal, re-run with --yes to skip confirmation")
		}
		confirmed, err := ui.PromptConfirmation(fmt.Sprintf("Modify %s?", rcPath))
		if err != nil {
			return err
		}
		if !confirmed {
			ui.Info("Hook not installed")
			return nil
		}
	}

	rcPath, err = shell.InstallHook(shellType)
	if err != nil {
		return fmt.Errorf("failed to install hook: %w", err)
	}

	ui.Success(fmt.Sprintf("Hook installed in %s", rcPath))
	fmt.Println("\nRestart your shell or source the file to pick it up.")
	return nil
}
