// Package envfile edits the `export KEY=VALUE` lines benv manages inside
// activation payloads. Everything else in a payload is user territory and is
// preserved verbatim; activation itself never goes through this package.
package envfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Var is one managed export line of a payload.
type Var struct {
	Key   string
	Value string
}

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidKey reports whether key is a portable shell variable name.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// List returns the managed export lines of the payload in file order.
func List(path string) ([]Var, error) {
	lines, _, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var vars []Var
	for _, line := range lines {
		if v, ok := parseExport(line); ok {
			vars = append(vars, v)
		}
	}
	return vars, nil
}

// Set upserts an export line for key. An existing line is rewritten in
// place; a new key is appended at the end of the payload. The payload must
// already exist, since benv never creates configurations.
func Set(path, key, value string) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid variable name: %q", key)
	}

	lines, mode, err := readLines(path)
	if err != nil {
		return err
	}

	entry := formatExport(key, value)
	replaced := false
	kept := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		v, ok := parseExport(line)
		if ok && v.Key == key {
			if !replaced {
				kept = append(kept, entry)
				replaced = true
			}
			// Duplicate lines for the same key collapse into one
			continue
		}
		kept = append(kept, line)
	}
	if !replaced {
		kept = append(kept, entry)
	}

	return writeLines(path, kept, mode)
}

// Unset removes the export lines for the given keys and reports how many
// lines were removed.
func Unset(path string, keys ...string) (int, error) {
	lines, mode, err := readLines(path)
	if err != nil {
		return 0, err
	}

	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	removed := 0
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if v, ok := parseExport(line); ok && drop[v.Key] {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	if removed == 0 {
		return 0, nil
	}

	return removed, writeLines(path, kept, mode)
}

// parseExport recognizes `export KEY=VALUE` lines this package wrote (or
// compatible hand-written ones). VALUE is unquoted when it is a single
// shell word; otherwise the raw text is kept so nothing is lost on display.
func parseExport(line string) (Var, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "export ")
	if !ok {
		return Var{}, false
	}
	key, value, ok := strings.Cut(strings.TrimSpace(rest), "=")
	if !ok || !ValidKey(key) {
		return Var{}, false
	}
	if words, err := shellquote.Split(value); err == nil && len(words) == 1 {
		return Var{Key: key, Value: words[0]}, true
	}
	return Var{Key: key, Value: value}, true
}

func formatExport(key, value string) string {
	return fmt.Sprintf("export %s=%s", key, shellquote.Join(value))
}

// readLines returns the payload's lines and its file mode, so writes keep
// whatever permissions the user gave the payload.
func readLines(path string) ([]string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read payload: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read payload: %w", err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, info.Mode().Perm(), nil
	}
	return strings.Split(text, "\n"), info.Mode().Perm(), nil
}

func writeLines(path string, lines []string, mode os.FileMode) error {
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}
