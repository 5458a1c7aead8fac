package registry

import "errors"

// Sentinel errors surfaced by registry operations. CLI commands match on
// these with errors.Is to pick messages and exit codes.
var (
	// ErrCategoryNotFound indicates the category directory does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrConfigNotFound indicates the configuration directory or its
	// activation payload does not exist.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrActivationFailed indicates the activation payload reported failure.
	// The selection record is left untouched when this is returned.
	ErrActivationFailed = errors.New("activation failed")

	// ErrNoContextSet indicates no configuration is recorded for a category.
	// Informational: commands report it and exit zero.
	ErrNoContextSet = errors.New("no context set")
)
