package cmd

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byterings/benv/internal/config"
	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/testutil"
	"github.com/byterings/benv/internal/ui"
)

// setupEnv isolates HOME, the contexts tree, and the activation shell,
// returning the contexts root.
func setupEnv(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("end-to-end tests source payloads through /bin/sh")
	}

	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	t.Setenv(config.EnvContextsDir, root)
	t.Setenv(config.EnvShell, "/bin/sh")
	t.Setenv("BENV_HOOK", "1")
	return root
}

// run executes the root command with fresh streams so state does not leak
// between tests.
func run(in io.Reader, out io.Writer, args ...string) error {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestUse_ActivatesAndRecords(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")

	t.Setenv("BENV_E2E", "unset-me")
	require.NoError(t, run(nil, nil, "use", "network", "office"))

	// The payload was applied to this process
	assert.Equal(t, "office", os.Getenv("BENV_E2E"))
	// And the selection was recorded
	assert.Equal(t, "network=office\n", testutil.ReadRecord(t, root))
}

func TestUse_LastWriteWins(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")
	testutil.WriteConfig(t, root, "network", "home", "export BENV_E2E=home\n")

	t.Setenv("BENV_E2E", "")
	require.NoError(t, run(nil, nil, "use", "network", "office"))
	require.NoError(t, run(nil, nil, "use", "network", "home"))

	assert.Equal(t, "network=home\n", testutil.ReadRecord(t, root))
}

func TestUse_UnknownCategory(t *testing.T) {
	setupEnv(t)

	err := run(nil, nil, "use", "missing", "office")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrCategoryNotFound)
	assert.Equal(t, ExitNotFound, MapExitCode(err))
}

func TestUse_UnknownConfig(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=1\n")

	err := run(nil, nil, "use", "network", "datacenter")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrConfigNotFound)
	assert.Equal(t, "", testutil.ReadRecord(t, root))
}

func TestUse_FailingPayloadKeepsRecord(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")
	testutil.WriteConfig(t, root, "network", "broken", "exit 1\n")

	t.Setenv("BENV_E2E", "")
	require.NoError(t, run(nil, nil, "use", "network", "office"))

	err := run(nil, nil, "use", "network", "broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrActivationFailed)
	assert.Equal(t, ExitActivationFailed, MapExitCode(err))

	// The failed activation must not clobber the previous selection
	assert.Equal(t, "network=office\n", testutil.ReadRecord(t, root))
}

func TestUse_InteractiveSelection(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")
	testutil.WriteConfig(t, root, "network", "home", "export BENV_E2E=home\n")

	t.Setenv("BENV_E2E", "")
	var out bytes.Buffer
	// Options are sorted: 1) home, 2) office
	require.NoError(t, run(strings.NewReader("2\n"), &out, "use", "network"))

	assert.Equal(t, "network=office\n", testutil.ReadRecord(t, root))
	assert.Contains(t, out.String(), "1) home")
	assert.Contains(t, out.String(), "2) office")
}

func TestUse_InteractiveAborted(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=1\n")

	err := run(strings.NewReader(""), nil, "use", "network")
	require.Error(t, err)
	assert.ErrorIs(t, err, ui.ErrAborted)
	assert.Equal(t, ExitAborted, MapExitCode(err))
	assert.Equal(t, "", testutil.ReadRecord(t, root))
}

func TestUse_EmptyCategoryIsInformational(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteCategory(t, root, "network")

	// No configurations to pick from: message, zero exit, no record
	require.NoError(t, run(nil, nil, "use", "network"))
	assert.Equal(t, "", testutil.ReadRecord(t, root))
}

func TestShow_ZeroExitWithoutSelections(t *testing.T) {
	setupEnv(t)

	require.NoError(t, run(nil, nil, "show"))
	require.NoError(t, run(nil, nil, "show", "network"))
}

func TestList_UnknownCategory(t *testing.T) {
	setupEnv(t)

	err := run(nil, nil, "list", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, MapExitCode(err))
}

func TestExport_EmitsSourceLines(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")
	testutil.WriteConfig(t, root, "editor", "vim", "export BENV_E2E_EDITOR=vim\n")

	t.Setenv("BENV_E2E", "")
	t.Setenv("BENV_E2E_EDITOR", "")
	require.NoError(t, run(nil, nil, "use", "network", "office"))
	require.NoError(t, run(nil, nil, "use", "editor", "vim"))

	var out bytes.Buffer
	require.NoError(t, run(nil, &out, "export", "--shell", "bash"))

	script := out.String()
	assert.Contains(t, script, ". "+root+"/network/office/activate")
	assert.Contains(t, script, ". "+root+"/editor/vim/activate")
}

func TestExport_CategoryFilter(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteConfig(t, root, "network", "office", "export BENV_E2E=office\n")
	testutil.WriteConfig(t, root, "editor", "vim", "export BENV_E2E_EDITOR=vim\n")

	t.Setenv("BENV_E2E", "")
	t.Setenv("BENV_E2E_EDITOR", "")
	require.NoError(t, run(nil, nil, "use", "network", "office"))
	require.NoError(t, run(nil, nil, "use", "editor", "vim"))

	var out bytes.Buffer
	require.NoError(t, run(nil, &out, "export", "network", "--shell", "bash"))

	script := out.String()
	assert.Contains(t, script, "network/office/activate")
	assert.NotContains(t, script, "editor/vim/activate")
}

func TestExport_SkipsStaleSelectionsAsComments(t *testing.T) {
	root := setupEnv(t)
	testutil.WriteRecord(t, root, "network=gone\n")

	var out bytes.Buffer
	require.NoError(t, run(nil, &out, "export", "--shell", "bash"))

	script := out.String()
	assert.Contains(t, script, "# benv: skipping network=gone")
	assert.NotContains(t, script, ". "+root)
}

func TestExport_EmptyRecordEmitsNothing(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(nil, &out, "export", "--shell", "bash"))
	assert.Empty(t, out.String())

	require.NoError(t, run(nil, &out, "export", "network", "--shell", "bash"))
	assert.Empty(t, out.String())
}
