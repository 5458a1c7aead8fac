package shell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/byterings/benv/internal/platform"
)

// volatileVars are mutated by the subshell itself and would show up as
// false diffs on every activation.
var volatileVars = map[string]bool{
	"_":      true,
	"SHLVL":  true,
	"PWD":    true,
	"OLDPWD": true,
}

// SourcingActivator applies a payload by sourcing it in a throwaway shell
// with allexport set, capturing the resulting environment, and replaying
// the difference onto the current process. Variables the payload unsets
// are unset here too.
//
// The process hooks are swappable so tests can observe the applied
// changes without touching the real environment.
type SourcingActivator struct {
	Shell    string
	Environ  func() []string
	Setenv   func(key, value string) error
	Unsetenv func(key string) error
}

// NewSourcingActivator returns an activator that sources payloads with the
// given shell, or the platform default when shell is empty.
func NewSourcingActivator(shell string) *SourcingActivator {
	if shell == "" {
		shell = platform.DefaultShell()
	}
	return &SourcingActivator{Shell: shell}
}

// Apply sources the payload and applies the environment delta. Anything
// the payload prints is routed to the error stream; stdout carries only
// the env dump.
func (a *SourcingActivator) Apply(payloadPath string) error {
	script := fmt.Sprintf("set -a && . %s >&2 && env -0", shellquote.Join(payloadPath))

	cmd := exec.Command(a.Shell, "-c", script)
	cmd.Env = a.environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s", err, msg)
		}
		return err
	}

	before := parseEnviron(a.environ())
	after := parseNullEnv(stdout.Bytes())

	for key, value := range after {
		if volatileVars[key] {
			continue
		}
		if prev, ok := before[key]; !ok || prev != value {
			if err := a.setenv(key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
	}
	for key := range before {
		if volatileVars[key] {
			continue
		}
		if _, ok := after[key]; !ok {
			if err := a.unsetenv(key); err != nil {
				return fmt.Errorf("failed to unset %s: %w", key, err)
			}
		}
	}

	return nil
}

func (a *SourcingActivator) environ() []string {
	if a.Environ != nil {
		return a.Environ()
	}
	return os.Environ()
}

func (a *SourcingActivator) setenv(key, value string) error {
	if a.Setenv != nil {
		return a.Setenv(key, value)
	}
	return os.Setenv(key, value)
}

func (a *SourcingActivator) unsetenv(key string) error {
	if a.Unsetenv != nil {
		return a.Unsetenv(key)
	}
	return os.Unsetenv(key)
}

func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if key, value, ok := strings.Cut(entry, "="); ok && key != "" {
			env[key] = value
		}
	}
	return env
}

// parseNullEnv parses `env -0` output. NUL separation keeps multi-line
// values intact.
func parseNullEnv(data []byte) map[string]string {
	env := make(map[string]string)
	for _, entry := range bytes.Split(data, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		if key, value, ok := strings.Cut(string(entry), "="); ok && key != "" {
			env[key] = value
		}
	}
	return env
}
