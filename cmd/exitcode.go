package cmd

import (
	"errors"

	"github.com/byterings/benv/internal/registry"
	"github.com/byterings/benv/internal/ui"
)

// ExitCode is the process exit code benv terminates with.
type ExitCode int

const (
	// ExitSuccess is a normal exit.
	ExitSuccess ExitCode = 0
	// ExitGeneral is an unclassified error.
	ExitGeneral ExitCode = 1
	// ExitNotFound means a category or configuration does not exist.
	ExitNotFound ExitCode = 2
	// ExitActivationFailed means a payload could not be applied.
	ExitActivationFailed ExitCode = 3
	// ExitAborted means an interactive prompt was abandoned.
	ExitAborted ExitCode = 4
)

// MapExitCode maps sentinel errors onto exit codes.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, registry.ErrCategoryNotFound),
		errors.Is(err, registry.ErrConfigNotFound):
		return ExitNotFound
	case errors.Is(err, registry.ErrActivationFailed):
		return ExitActivationFailed
	case errors.Is(err, ui.ErrAborted):
		return ExitAborted
	default:
		return ExitGeneral
	}
}
