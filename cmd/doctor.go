package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/platform"
	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/shell"
	"github.com/byterings/benv/internal/ui"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Check benv configuration health and diagnose common issues.

Runs checks on:
- Config file validity
- Contexts tree layout and payload permissions
- Selection record staleness
- Shell hook installation

Examples:
  benv doctor              # Run diagnostics
  benv doctor --fix        # Auto-fix permission issues`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVarP(&doctorFix, "fix", "f", false, "Auto-fix permission issues")
}

type checkResult struct {
	passed  bool
	message string
	fix     string // Suggested fix command
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println("Checking benv configuration...")
	fmt.Println()

	errors := 0
	warnings := 0
	fixed := 0

	// 1. Config checks
	fmt.Println("Config")
	fmt.Println("──────")

	configResults := checkConfig()
	for _, r := range configResults {
		printCheckResult(r)
		if !r.passed && r.fix == "" {
			errors++
		} else if !r.passed {
			warnings++
		}
	}

	// Load config for remaining checks
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println()
		ui.Error(fmt.Sprintf("Cannot continue: %v", err))
		return nil
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		fmt.Println()
		ui.Error(fmt.Sprintf("Cannot continue: %v", err))
		return nil
	}

	// 2. Contexts tree checks
	fmt.Println()
	fmt.Println("Contexts")
	fmt.Println("────────")

	treeResults, treeFixed := checkContexts(reg, doctorFix)
	for _, r := range treeResults {
		printCheckResult(r)
		if !r.passed && r.fix == "" {
			errors++
		} else if !r.passed {
			warnings++
		}
	}
	fixed += treeFixed

	// 3. Selection record checks
	fmt.Println()
	fmt.Println("Selection Record")
	fmt.Println("────────────────")

	recordResults := checkRecord(reg)
	for _, r := range recordResults {
		printCheckResult(r)
		if !r.passed && r.fix == "" {
			errors++
		} else if !r.passed {
			warnings++
		}
	}

	// 4. Shell integration checks
	fmt.Println()
	fmt.Println("Shell Integration")
	fmt.Println("─────────────────")

	shellResults := checkShellIntegration()
	for _, r := range shellResults {
		printCheckResult(r)
		if !r.passed && r.fix == "" {
			errors++
		} else if !r.passed {
			warnings++
		}
	}

	// Summary
	fmt.Println()
	fmt.Println("─────────")

	if fixed > 0 {
		ui.Success(fmt.Sprintf("Auto-fixed %d issue(s)", fixed))
	}

	if errors == 0 && warnings == 0 {
		ui.Success("All checks passed!")
	} else if errors == 0 {
		ui.Warning(fmt.Sprintf("%d warning(s)", warnings))
	} else {
		ui.Error(fmt.Sprintf("%d error(s), %d warning(s)", errors, warnings))
	}

	return nil
}

func printCheckResult(r checkResult) {
	if r.passed {
		fmt.Printf("  ✓ %s\n", r.message)
	} else if r.fix != "" {
		fmt.Printf("  ⚠ %s\n", r.message)
		fmt.Printf("    → %s\n", r.fix)
	} else {
		fmt.Printf("  ✗ %s\n", r.message)
	}
}

func checkConfig() []checkResult {
	var results []checkResult

	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("Platform: %s", platform.GetPlatformName()),
	})

	// Check if config exists
	exists, err := config.ConfigExists()
	if err != nil {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Error checking config: %v", err),
		})
		return results
	}

	if !exists {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Config file not found: %s", platform.GetConfigFilePath()),
			fix:     "Run: benv init",
		})
		return results
	}

	results = append(results, checkResult{
		passed:  true,
		message: "Config file exists",
	})

	// Try to load config
	cfg, err := config.LoadConfig()
	if err != nil {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Config file invalid: %v", err),
		})
		return results
	}

	results = append(results, checkResult{
		passed:  true,
		message: "Config file valid",
	})

	// Check the activation shell is runnable
	sh := cfg.EffectiveShell()
	if filepath.IsAbs(sh) {
		if _, err := os.Stat(sh); err != nil {
			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Activation shell %s not found", sh),
				fix:     "Set 'shell' in config.toml to an installed shell",
			})
			return results
		}
	} else if !platform.HasCommand(sh) {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Activation shell %s not found in PATH", sh),
			fix:     "Set 'shell' in config.toml to an installed shell",
		})
		return results
	}

	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("Activation shell: %s", sh),
	})

	return results
}

func checkContexts(reg *registry.Registry, autoFix bool) ([]checkResult, int) {
	var results []checkResult
	fixed := 0

	categories, err := reg.Categories()
	if err != nil {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Cannot read contexts root: %v", err),
		})
		return results, fixed
	}

	if len(categories) == 0 {
		results = append(results, checkResult{
			passed:  false,
			message: "No categories found",
			fix:     fmt.Sprintf("Run: mkdir -p %s", filepath.Join(reg.Root(), "<category>", "<config>")),
		})
		return results, fixed
	}

	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("%d category(s) found", len(categories)),
	})

	// Count configurations and check payload permissions
	totalConfigs := 0
	for _, category := range categories {
		configs, err := reg.Configurations(category)
		if err != nil {
			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Cannot read category %s: %v", category, err),
			})
			continue
		}
		totalConfigs += len(configs)

		for _, name := range configs {
			payload, err := reg.PayloadPath(category, name)
			if err != nil {
				continue
			}

			ok, err := platform.CheckFilePermissions(payload)
			if err != nil || ok {
				continue
			}

			if autoFix {
				if err := platform.FixFilePermissions(payload); err == nil {
					results = append(results, checkResult{
						passed:  true,
						message: fmt.Sprintf("Fixed permissions on %s/%s payload", category, name),
					})
					fixed++
					continue
				}
			}

			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Payload %s/%s is readable by others", category, name),
				fix:     platform.GetPermissionFixCommand(payload),
			})
		}
	}

	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("%d configuration(s) found", totalConfigs),
	})

	return results, fixed
}

func checkRecord(reg *registry.Registry) []checkResult {
	var results []checkResult

	selections, err := reg.Selections()
	if err != nil {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Cannot read selection record: %v", err),
		})
		return results
	}

	if len(selections) == 0 {
		results = append(results, checkResult{
			passed:  true,
			message: "No selections recorded yet",
		})
		return results
	}

	for _, sel := range selections {
		if _, err := reg.PayloadPath(sel.Category, sel.Config); err != nil {
			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Recorded selection %s=%s no longer exists", sel.Category, sel.Config),
				fix:     fmt.Sprintf("Run: benv use %s", sel.Category),
			})
			continue
		}
		results = append(results, checkResult{
			passed:  true,
			message: fmt.Sprintf("%s=%s", sel.Category, sel.Config),
		})
	}

	// Duplicate keys mean the record was edited by hand; benv's own
	// writes keep keys unique
	if dups := duplicateRecordKeys(reg); len(dups) > 0 {
		for _, category := range dups {
			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Record holds duplicate entries for %s", category),
				fix:     fmt.Sprintf("Run: benv use %s", category),
			})
		}
	}

	return results
}

// duplicateRecordKeys scans the raw record file since the registry
// deduplicates on read.
func duplicateRecordKeys(reg *registry.Registry) []string {
	data, err := os.ReadFile(filepath.Join(reg.Root(), registry.RecordFileName))
	if err != nil {
		return nil
	}

	seen := map[string]int{}
	var dups []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, _, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}

func checkShellIntegration() []checkResult {
	var results []checkResult

	shellType := shell.DetectShell()
	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("Login shell: %s", shellType),
	})

	installed, err := shell.HookInstalled(shellType)
	if err != nil {
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Cannot check hook: %v", err),
		})
		return results
	}

	if !installed {
		results = append(results, checkResult{
			passed:  false,
			message: "Shell hook not installed",
			fix:     "Run: benv hook --install",
		})
		return results
	}

	results = append(results, checkResult{
		passed:  true,
		message: "Shell hook installed",
	})

	if os.Getenv("BENV_HOOK") == "" {
		results = append(results, checkResult{
			passed:  false,
			message: "Hook not active in this shell",
			fix:     "Restart your shell",
		})
	} else {
		results = append(results, checkResult{
			passed:  true,
			message: "Hook active in this shell",
		})
	}

	return results
}
