package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// PayloadFileName is the file a configuration directory must contain to be
// selectable. It is sourced by the shell to apply the environment changes.
const PayloadFileName = "activate"

// Activator applies a configuration's activation payload. The registry never
// inspects payload contents; it only cares whether applying succeeded.
type Activator interface {
	Apply(payloadPath string) error
}

// ActivatorFunc adapts a function to the Activator interface.
type ActivatorFunc func(payloadPath string) error

// Apply calls f(payloadPath).
func (f ActivatorFunc) Apply(payloadPath string) error { return f(payloadPath) }

// Registry reads and updates one contexts tree. All filesystem access goes
// through a billy.Filesystem rooted at the tree, so tests can run against an
// in-memory filesystem.
type Registry struct {
	fs billy.Filesystem
}

// New returns a Registry over the contexts tree rooted at root. The root
// does not have to exist yet; a missing root reads as an empty tree.
func New(root string) *Registry {
	return &Registry{fs: osfs.New(root)}
}

// NewFromFS returns a Registry over an arbitrary filesystem, rooted at the
// filesystem's root. Used by tests with memfs.
func NewFromFS(fs billy.Filesystem) *Registry {
	return &Registry{fs: fs}
}

// Root returns the absolute path of the contexts tree.
func (r *Registry) Root() string {
	return r.fs.Root()
}

// Categories returns the category names in the tree, sorted alphabetically.
// A missing or empty root yields an empty slice, not an error. Dot-prefixed
// entries are not categories (.current lives in the root), and neither are
// directories whose names the selection record cannot hold.
func (r *Registry) Categories() ([]string, error) {
	entries, err := r.fs.ReadDir(".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read contexts root: %w", err)
	}

	var categories []string
	for _, entry := range entries {
		if !entry.IsDir() || !validCategory(entry.Name()) {
			continue
		}
		categories = append(categories, entry.Name())
	}

	sort.Strings(categories)
	return categories, nil
}

// Configurations returns the valid configuration names within a category,
// sorted lexicographically. A configuration is valid only if it contains the
// activation payload. A category that exists but has no valid configurations
// yields an empty slice, not an error.
func (r *Registry) Configurations(category string) ([]string, error) {
	if err := r.statCategory(category); err != nil {
		return nil, err
	}

	entries, err := r.fs.ReadDir(category)
	if err != nil {
		return nil, fmt.Errorf("failed to read category %s: %w", category, err)
	}

	var configs []string
	for _, entry := range entries {
		if !entry.IsDir() || !validName(entry.Name()) {
			continue
		}
		ok, err := r.hasPayload(category, entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			configs = append(configs, entry.Name())
		}
	}

	sort.Strings(configs)
	return configs, nil
}

// PayloadPath resolves the absolute path of a configuration's activation
// payload, verifying that the category, the configuration, and the payload
// all exist.
func (r *Registry) PayloadPath(category, config string) (string, error) {
	if err := r.statCategory(category); err != nil {
		return "", err
	}
	if !validName(config) {
		return "", fmt.Errorf("%w: %s/%s", ErrConfigNotFound, category, config)
	}

	info, err := r.fs.Stat(r.fs.Join(category, config))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrConfigNotFound, category, config)
		}
		return "", fmt.Errorf("failed to stat configuration %s/%s: %w", category, config, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s/%s", ErrConfigNotFound, category, config)
	}
	ok, err := r.hasPayload(category, config)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s/%s has no %s file", ErrConfigNotFound, category, config, PayloadFileName)
	}

	return filepath.Join(r.Root(), category, config, PayloadFileName), nil
}

// Activate applies the named configuration's payload and, only if that
// succeeds, records it as the active selection for the category. A failed
// payload leaves the record byte-for-byte untouched.
func (r *Registry) Activate(category, config string, act Activator) error {
	payload, err := r.PayloadPath(category, config)
	if err != nil {
		return err
	}

	if err := act.Apply(payload); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrActivationFailed, category, config, err)
	}

	selections, err := r.readRecord()
	if err != nil {
		return err
	}
	return r.writeRecord(upsertSelection(selections, category, config))
}

// Current returns the recorded active configuration for a category, or
// ErrNoContextSet if none is recorded. The entry may be stale if the tree
// changed since it was written; staleness is tolerated, not repaired.
func (r *Registry) Current(category string) (string, error) {
	selections, err := r.readRecord()
	if err != nil {
		return "", err
	}
	for _, s := range selections {
		if s.Category == category {
			return s.Config, nil
		}
	}
	return "", fmt.Errorf("category %s: %w", category, ErrNoContextSet)
}

// Selections returns the full selection record in file order. A missing
// record file yields an empty slice, not an error.
func (r *Registry) Selections() ([]Selection, error) {
	return r.readRecord()
}

// statCategory verifies the category directory exists.
func (r *Registry) statCategory(category string) error {
	if !validCategory(category) {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	info, err := r.fs.Stat(category)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
		}
		return fmt.Errorf("failed to stat category %s: %w", category, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	return nil
}

// hasPayload reports whether the configuration holds a regular payload file.
func (r *Registry) hasPayload(category, config string) (bool, error) {
	info, err := r.fs.Stat(r.fs.Join(category, config, PayloadFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat payload %s/%s: %w", category, config, err)
	}
	return !info.IsDir(), nil
}

// validName rejects names that are empty, hidden, would escape the tree when
// joined into a path, or would not survive a selection record round-trip
// (edge whitespace and line breaks are eaten by the codec).
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if name != strings.TrimSpace(name) {
		return false
	}
	return !strings.ContainsAny(name, "/\\\n\r")
}

// validCategory additionally rejects record syntax: '=' ends the key and
// '#' opens a comment line.
func validCategory(name string) bool {
	if !validName(name) {
		return false
	}
	return !strings.Contains(name, "=") && !strings.HasPrefix(name, "#")
}
