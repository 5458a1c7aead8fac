package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/shell"
)

var exportShell string

var exportCmd = &cobra.Command{
	Use:   "export [category]",
	Short: "Print source lines for the recorded selections",
	Long: `Print shell code that sources the payloads of recorded selections,
one line per category. Meant to be eval'd: the shell hook runs it on
startup and again after each successful benv command.

Selections whose payload has gone missing are emitted as comments so
the output stays safe to eval.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  eval "$(benv export)"
  benv export --shell fish | source
  benv export network        # Only the 'network' selection`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportShell, "shell", "", "shell dialect: bash, zsh, fish or sh (default: autodetect)")
}

// resolveShellType validates a --shell flag value, autodetecting from
// $SHELL when the flag is empty.
func resolveShellType(flag string) (string, error) {
	if flag == "" {
		return shell.DetectShell(), nil
	}
	for _, known := range shell.SupportedShells() {
		if flag == known {
			return flag, nil
		}
	}
	return "", fmt.Errorf("unsupported shell %q, expected one of: %s",
		flag, strings.Join(shell.SupportedShells(), ", "))
}

func runExport(cmd *cobra.Command, args []string) error {
	shellType, err := resolveShellType(exportShell)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	var selections []registry.Selection
	if len(args) == 1 {
		category := args[0]
		current, err := reg.Current(category)
		if err != nil {
			// No selection means no output; empty eval is a no-op
			if errors.Is(err, registry.ErrNoContextSet) {
				return nil
			}
			return err
		}
		selections = []registry.Selection{{Category: category, Config: current}}
	} else {
		selections, err = reg.Selections()
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, sel := range selections {
		path, err := reg.PayloadPath(sel.Category, sel.Config)
		if err != nil {
			fmt.Fprintln(out, shell.CommentLine(fmt.Sprintf("skipping %s=%s: %v", sel.Category, sel.Config, err)))
			continue
		}
		fmt.Fprintln(out, shell.SourceLine(shellType, path))
	}

	return nil
}
