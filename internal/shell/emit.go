// Package shell generates the shell-side half of benv: the source lines
// that replay recorded selections, the startup hook that keeps a shell in
// sync with the record, and the activator that applies a payload to the
// current process.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	ShellBash = "bash"
	ShellZsh  = "zsh"
	ShellFish = "fish"
	ShellSh   = "sh"
)

// SupportedShells lists the shells benv can emit hooks for.
func SupportedShells() []string {
	return []string{ShellBash, ShellZsh, ShellFish, ShellSh}
}

// DetectShell inspects $SHELL and returns one of the supported shell names,
// falling back to bash when the login shell is unknown.
func DetectShell() string {
	name := filepath.Base(os.Getenv("SHELL"))
	switch name {
	case ShellBash, ShellZsh, ShellFish, ShellSh:
		return name
	}
	return ShellBash
}

// SourceLine renders one line that sources the payload in the given shell
// dialect. Paths are quoted so spaces and metacharacters survive eval.
func SourceLine(shellType, payloadPath string) string {
	if shellType == ShellFish {
		return "source " + shellquote.Join(payloadPath)
	}
	return ". " + shellquote.Join(payloadPath)
}

// CommentLine renders a line that is inert when eval'd, used to report
// skipped selections without breaking `eval "$(benv export)"`.
func CommentLine(text string) string {
	return "# benv: " + strings.ReplaceAll(text, "\n", " ")
}

// HookSnippet returns the startup hook for the given shell. The hook
// replays recorded selections when a shell starts and wraps the benv
// binary so selections are replayed again after each successful command.
// BENV_HOOK marks hooked shells; `benv use` uses it to decide whether a
// restart hint is needed.
func HookSnippet(shellType string) string {
	if shellType == ShellFish {
		return `if type -q benv
    set -gx BENV_HOOK 1
    command benv export --shell fish | source
    function benv --wraps benv
        command benv $argv; and command benv export --shell fish | source
    end
end
`
	}

	// bash, zsh and plain sh share the POSIX form. sh has no functions in
	// some implementations, but every shell we install into does.
	return fmt.Sprintf(`if command -v benv >/dev/null 2>&1; then
    export BENV_HOOK=1
    eval "$(command benv export --shell %s)"
    benv() {
        command benv "$@" && eval "$(command benv export --shell %s)"
    }
fi
`, shellType, shellType)
}
