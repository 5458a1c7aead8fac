package registry

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/util"
)

// RecordFileName is the selection record file inside the contexts root. One
// "category=config" line per category, keys unique, last write wins.
const RecordFileName = ".current"

// Selection is one entry of the selection record.
type Selection struct {
	Category string
	Config   string
}

// readRecord parses the selection record. A missing file reads as an empty
// record. Malformed lines are skipped, so they disappear on the next write.
func (r *Registry) readRecord() ([]Selection, error) {
	data, err := util.ReadFile(r.fs, RecordFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read selection record: %w", err)
	}
	return parseRecord(data), nil
}

// writeRecord rewrites the whole selection record atomically: the new
// content goes to a temp file in the same directory, which is then renamed
// over the record so a crash mid-write cannot truncate it.
func (r *Registry) writeRecord(selections []Selection) error {
	tmp, err := r.fs.TempFile("", RecordFileName+"-")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(formatRecord(selections)); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write selection record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to write selection record: %w", err)
	}

	if err := r.fs.Rename(tmpName, RecordFileName); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace selection record: %w", err)
	}
	return nil
}

// upsertSelection drops any entry for the category and appends the new one,
// keeping keys unique and the rest of the record in its original order.
func upsertSelection(selections []Selection, category, config string) []Selection {
	kept := make([]Selection, 0, len(selections)+1)
	for _, s := range selections {
		if s.Category != category {
			kept = append(kept, s)
		}
	}
	return append(kept, Selection{Category: category, Config: config})
}

// parseRecord reads selections from record bytes, skipping lines that do
// not parse. A duplicated category folds through upsertSelection so the
// result matches what the equivalent sequence of writes would have left:
// keys unique, the later line winning. Splitting instead of scanning keeps
// lines of any length intact.
func parseRecord(data []byte) []Selection {
	var selections []Selection
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		selections = upsertSelection(selections, key, value)
	}
	return selections
}

func formatRecord(selections []Selection) []byte {
	var buf bytes.Buffer
	for _, s := range selections {
		fmt.Fprintf(&buf, "%s=%s\n", s.Category, s.Config)
	}
	return buf.Bytes()
}
