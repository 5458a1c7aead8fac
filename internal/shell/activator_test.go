package shell_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byterings/benv/internal/shell"
)

// capturingActivator returns an activator wired to an isolated fake
// environment, recording every set and unset instead of touching the
// process.
func capturingActivator(environ []string) (*shell.SourcingActivator, map[string]string, *[]string) {
	set := map[string]string{}
	unset := &[]string{}

	act := &shell.SourcingActivator{
		Shell:   "/bin/sh",
		Environ: func() []string { return environ },
		Setenv: func(key, value string) error {
			set[key] = value
			return nil
		},
		Unsetenv: func(key string) error {
			*unset = append(*unset, key)
			return nil
		},
	}
	return act, set, unset
}

func writeActivatePayload(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "activate")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func skipWithoutPosixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("activation sources POSIX payloads through /bin/sh")
	}
}

func TestSourcingActivator_AppliesExports(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "export FOO=bar\nBAZ=qux\n")
	act, set, unset := capturingActivator([]string{"PATH=/usr/bin:/bin", "KEEP=1"})

	require.NoError(t, act.Apply(payload))

	assert.Equal(t, "bar", set["FOO"])
	// allexport picks up plain assignments too
	assert.Equal(t, "qux", set["BAZ"])
	assert.NotContains(t, set, "KEEP", "unchanged variables are not re-set")
	assert.NotContains(t, set, "PATH")
	assert.Empty(t, *unset)
}

func TestSourcingActivator_OverridesExistingValues(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "export MODE=office\n")
	act, set, _ := capturingActivator([]string{"PATH=/usr/bin:/bin", "MODE=home"})

	require.NoError(t, act.Apply(payload))

	assert.Equal(t, "office", set["MODE"])
}

func TestSourcingActivator_AppliesUnsets(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "unset DROPME\nexport NEW=1\n")
	act, set, unset := capturingActivator([]string{"PATH=/usr/bin:/bin", "DROPME=x"})

	require.NoError(t, act.Apply(payload))

	assert.Equal(t, "1", set["NEW"])
	assert.Equal(t, []string{"DROPME"}, *unset)
}

func TestSourcingActivator_PreservesMultilineValues(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "export MULTI='line1\nline2'\n")
	act, set, _ := capturingActivator([]string{"PATH=/usr/bin:/bin"})

	require.NoError(t, act.Apply(payload))

	assert.Equal(t, "line1\nline2", set["MULTI"])
}

func TestSourcingActivator_IgnoresShellNoise(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "export A=1\n")
	act, set, unset := capturingActivator([]string{"PATH=/usr/bin:/bin"})

	require.NoError(t, act.Apply(payload))

	// PWD, SHLVL and friends appear in the subshell but must not leak
	// through as activation changes
	for _, noisy := range []string{"PWD", "OLDPWD", "SHLVL", "_"} {
		assert.NotContains(t, set, noisy)
	}
	assert.Empty(t, *unset)
}

func TestSourcingActivator_PayloadMayPrint(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "echo proxy configured\nexport NEW=1\n")
	act, set, unset := capturingActivator([]string{"PATH=/usr/bin:/bin", "KEEP=1"})

	require.NoError(t, act.Apply(payload))

	// The echo must not glue itself onto the env dump
	assert.Equal(t, "1", set["NEW"])
	for key := range set {
		assert.NotContains(t, key, "\n", "payload output leaked into the capture")
	}
	assert.NotContains(t, set, "proxy configured\nNEW")
	assert.NotContains(t, set, "KEEP")
	assert.Empty(t, *unset)
}

func TestSourcingActivator_FailingPayload(t *testing.T) {
	skipWithoutPosixShell(t)

	payload := writeActivatePayload(t, "echo broken setup >&2\nexit 3\n")
	act, set, unset := capturingActivator([]string{"PATH=/usr/bin:/bin"})

	err := act.Apply(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "broken setup")
	assert.Empty(t, set, "a failed payload must not change the environment")
	assert.Empty(t, *unset)
}

func TestSourcingActivator_MissingPayload(t *testing.T) {
	skipWithoutPosixShell(t)

	act, set, _ := capturingActivator([]string{"PATH=/usr/bin:/bin"})

	err := act.Apply(filepath.Join(t.TempDir(), "activate"))
	require.Error(t, err)
	assert.Empty(t, set)
}

func TestNewSourcingActivator_DefaultShell(t *testing.T) {
	skipWithoutPosixShell(t)

	act := shell.NewSourcingActivator("")
	assert.Equal(t, "/bin/sh", act.Shell)

	act = shell.NewSourcingActivator("/bin/bash")
	assert.Equal(t, "/bin/bash", act.Shell)
}
