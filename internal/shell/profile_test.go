package shell_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byterings/benv/internal/shell"
)

const (
	managedStart = "# ---- BEGIN BENV MANAGED ----"
	managedEnd   = "# ---- END BENV MANAGED ----"
)

// tempHome redirects $HOME so startup files and backups land in a
// throwaway directory.
func tempHome(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("startup file tests assume a POSIX home layout")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRCPath_PerShell(t *testing.T) {
	tempHome(t)

	tests := []struct {
		shellType string
		suffix    string
	}{
		{shell.ShellBash, ".bashrc"},
		{shell.ShellZsh, ".zshrc"},
		{shell.ShellSh, ".profile"},
		{shell.ShellFish, filepath.Join(".config", "fish", "conf.d", "benv.fish")},
	}

	for _, tt := range tests {
		path, err := shell.RCPath(tt.shellType)
		require.NoError(t, err, tt.shellType)
		assert.True(t, strings.HasSuffix(path, tt.suffix), "%s → %s", tt.shellType, path)
	}

	_, err := shell.RCPath("tcsh")
	assert.Error(t, err)
}

func TestInstallHook_CreatesStartupFile(t *testing.T) {
	home := tempHome(t)

	rcPath, err := shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".bashrc"), rcPath)

	content := readFile(t, rcPath)
	assert.Contains(t, content, managedStart)
	assert.Contains(t, content, managedEnd)
	assert.Contains(t, content, "benv export --shell bash")

	installed, err := shell.HookInstalled(shell.ShellBash)
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestInstallHook_PreservesExistingContent(t *testing.T) {
	home := tempHome(t)
	rcPath := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("# my prompt\nPS1='% '\n"), 0644))

	_, err := shell.InstallHook(shell.ShellZsh)
	require.NoError(t, err)

	content := readFile(t, rcPath)
	assert.Contains(t, content, "# my prompt")
	assert.Contains(t, content, "PS1='% '")
	assert.Less(t, strings.Index(content, "PS1"), strings.Index(content, managedStart),
		"existing content stays above the managed section")
}

func TestInstallHook_BacksUpStartupFile(t *testing.T) {
	home := tempHome(t)
	rcPath := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("alias ll='ls -l'\n"), 0644))

	_, err := shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)

	backups, err := os.ReadDir(filepath.Join(home, ".benv", "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Contains(t, backups[0].Name(), ".bashrc.")

	backup := readFile(t, filepath.Join(home, ".benv", "backups", backups[0].Name()))
	assert.Equal(t, "alias ll='ls -l'\n", backup)
}

func TestInstallHook_ReinstallKeepsOneSection(t *testing.T) {
	home := tempHome(t)

	_, err := shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)
	_, err = shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)

	content := readFile(t, filepath.Join(home, ".bashrc"))
	assert.Equal(t, 1, strings.Count(content, managedStart))
	assert.Equal(t, 1, strings.Count(content, managedEnd))
}

func TestInstallHook_KeepsLinesBeyondScannerLimit(t *testing.T) {
	home := tempHome(t)
	rcPath := filepath.Join(home, ".bashrc")

	// Longer than bufio.Scanner's 64KB default; rewrites must not drop it
	long := "export PATH=" + strings.Repeat("/some/dir:", 20000) + "$PATH"
	require.NoError(t, os.WriteFile(rcPath, []byte(long+"\n"), 0644))

	_, err := shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, rcPath), long)

	_, removed, err := shell.RemoveHook(shell.ShellBash)
	require.NoError(t, err)
	assert.True(t, removed)

	content := readFile(t, rcPath)
	assert.Contains(t, content, long)
	assert.NotContains(t, content, managedStart)
}

func TestInstallHook_FishConfD(t *testing.T) {
	home := tempHome(t)

	rcPath, err := shell.InstallHook(shell.ShellFish)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "fish", "conf.d", "benv.fish"), rcPath)

	content := readFile(t, rcPath)
	assert.Contains(t, content, "benv export --shell fish | source")
}

func TestRemoveHook_RestoresOriginalContent(t *testing.T) {
	home := tempHome(t)
	rcPath := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("# my prompt\n"), 0644))

	_, err := shell.InstallHook(shell.ShellBash)
	require.NoError(t, err)

	path, removed, err := shell.RemoveHook(shell.ShellBash)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, rcPath, path)

	content := readFile(t, rcPath)
	assert.Contains(t, content, "# my prompt")
	assert.NotContains(t, content, managedStart)

	// A second removal is a no-op
	_, removed, err = shell.RemoveHook(shell.ShellBash)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveHook_MissingStartupFile(t *testing.T) {
	tempHome(t)

	_, removed, err := shell.RemoveHook(shell.ShellZsh)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestHookInstalled_MissingStartupFile(t *testing.T) {
	tempHome(t)

	installed, err := shell.HookInstalled(shell.ShellBash)
	require.NoError(t, err)
	assert.False(t, installed)
}
