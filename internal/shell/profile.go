package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/platform"
)

const (
	benvManagedStart = "# ---- BEGIN BENV MANAGED ----"
	benvManagedEnd   = "# ---- END BENV MANAGED ----"
)

// RCPath returns the startup file benv installs its hook into for the
// given shell.
func RCPath(shellType string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch shellType {
	case ShellZsh:
		return filepath.Join(home, ".zshrc"), nil
	case ShellBash:
		return filepath.Join(home, ".bashrc"), nil
	case ShellSh:
		return filepath.Join(home, ".profile"), nil
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "conf.d", "benv.fish"), nil
	}
	return "", fmt.Errorf("unsupported shell: %s", shellType)
}

// HookInstalled reports whether the startup file for the shell contains a
// benv-managed section.
func HookInstalled(shellType string) (bool, error) {
	rcPath, err := RCPath(shellType)
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(rcPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", rcPath, err)
	}
	return strings.Contains(string(content), benvManagedStart), nil
}

// InstallHook writes the hook into the shell's startup file, replacing any
// previous benv-managed section. The startup file is backed up into the
// benv backup directory before it is modified. Returns the path that was
// written.
func InstallHook(shellType string) (string, error) {
	rcPath, err := RCPath(shellType)
	if err != nil {
		return "", err
	}

	if err := platform.MkdirSecure(filepath.Dir(rcPath)); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(rcPath), err)
	}

	existing, err := readProfile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", rcPath, err)
	}
	if err == nil {
		if err := backupProfile(rcPath, existing); err != nil {
			return "", err
		}
	}

	cleaned := removeManagedSection(existing)

	var newContent strings.Builder
	if cleaned != "" {
		newContent.WriteString(cleaned)
		newContent.WriteString("\n\n")
	}
	newContent.WriteString(generateManagedSection(shellType))

	if err := writeProfile(rcPath, newContent.String()); err != nil {
		return "", err
	}
	return rcPath, nil
}

// RemoveHook deletes the benv-managed section from the shell's startup
// file. Returns the path and whether a section was actually removed.
func RemoveHook(shellType string) (string, bool, error) {
	rcPath, err := RCPath(shellType)
	if err != nil {
		return "", false, err
	}

	existing, err := readProfile(rcPath)
	if os.IsNotExist(err) {
		return rcPath, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", rcPath, err)
	}
	if !strings.Contains(existing, benvManagedStart) {
		return rcPath, false, nil
	}

	if err := backupProfile(rcPath, existing); err != nil {
		return "", false, err
	}

	cleaned := removeManagedSection(existing)
	content := ""
	if cleaned != "" {
		content = cleaned + "\n"
	}
	if err := writeProfile(rcPath, content); err != nil {
		return "", false, err
	}
	return rcPath, true, nil
}

func readProfile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// writeProfile keeps the file's existing permissions; startup files are
// not secrets and arrive with whatever mode the user chose.
func writeProfile(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// backupProfile copies the startup file into the benv backup directory
// before it is rewritten.
func backupProfile(rcPath, content string) error {
	if err := config.CreateBackupDir(); err != nil {
		return err
	}
	backupDir, err := config.GetBackupDir()
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s.%s.bak", filepath.Base(rcPath), time.Now().Format("20060102-150405"))
	backupPath := filepath.Join(backupDir, name)
	if err := platform.CreateFileSecure(backupPath, []byte(content)); err != nil {
		return fmt.Errorf("failed to back up %s: %w", rcPath, err)
	}
	return nil
}

// removeManagedSection strips the benv-managed section, leaving everything
// else untouched. Splitting instead of scanning keeps lines of any length
// intact.
func removeManagedSection(content string) string {
	var kept []string
	inManagedSection := false

	for _, line := range strings.Split(content, "\n") {
		trimmedLine := strings.TrimSpace(line)

		if trimmedLine == benvManagedStart {
			inManagedSection = true
			continue
		}
		if trimmedLine == benvManagedEnd {
			inManagedSection = false
			continue
		}

		if !inManagedSection {
			kept = append(kept, line)
		}
	}

	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}

func generateManagedSection(shellType string) string {
	var section strings.Builder

	section.WriteString(benvManagedStart + "\n")
	section.WriteString("# DO NOT EDIT THIS SECTION MANUALLY\n")
	section.WriteString("# This section is managed by benv\n")
	section.WriteString(HookSnippet(shellType))
	section.WriteString(benvManagedEnd + "\n")

	return section.String()
}
