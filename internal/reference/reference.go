// Package reference serves the read-only classification code table
// (TN VED): each code maps to a display name and the standards that
// apply to it.
package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Descriptor describes a classification code.
type Descriptor struct {
	Name      string   `json:"name"`
	Standards []string `json:"standards"`
}

// Table maps a classification code to its descriptor.
type Table map[string]Descriptor

// Match is a table entry selected by a search.
type Match struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Standards []string `json:"standards"`
}

// Codes returns the table codes in ascending order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// ParseTable decodes a table document. The top level must be an object;
// entries that are not descriptor objects are skipped.
func ParseTable(data []byte) (Table, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode reference table: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode reference table: top level is not an object")
	}

	table := make(Table, len(raw))
	for code, value := range raw {
		var d Descriptor
		if err := json.Unmarshal(value, &d); err != nil {
			continue
		}
		d.Standards = normalizeStandards(d.Standards)
		table[code] = d
	}
	return table, nil
}

// LoadTable reads the table at path. A missing file is an empty table; an
// unreadable or malformed file is an empty table and a warning.
func LoadTable(path string, logger *slog.Logger) Table {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reference table unreadable", "path", path, "error", err)
		}
		return Table{}
	}

	table, err := ParseTable(data)
	if err != nil {
		logger.Warn("reference table malformed", "path", path, "error", err)
		return Table{}
	}
	return table
}

func normalizeStandards(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
