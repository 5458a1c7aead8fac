// Package testutil provides common test helpers for the benv project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempContextsRoot creates a temporary contexts tree and returns its path.
// The tree is automatically cleaned up when the test finishes.
func TempContextsRoot(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// WriteConfig creates category/config under root with an activate payload
// holding the given content.
func WriteConfig(t *testing.T, root, category, config, payload string) {
	t.Helper()

	dir := filepath.Join(root, category, config)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("WriteConfig: mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "activate"), []byte(payload), 0644); err != nil {
		t.Fatalf("WriteConfig: write payload failed: %v", err)
	}
}

// WriteCategory creates an empty category directory under root.
func WriteCategory(t *testing.T, root, category string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(root, category), 0755); err != nil {
		t.Fatalf("WriteCategory: mkdir failed: %v", err)
	}
}

// WriteRecord writes a raw selection record under root.
func WriteRecord(t *testing.T, root, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(root, ".current"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteRecord: write failed: %v", err)
	}
}

// ReadRecord reads the raw selection record under root. A missing record
// reads as empty.
func ReadRecord(t *testing.T, root string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, ".current"))
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("ReadRecord: read failed: %v", err)
	}
	return string(data)
}
