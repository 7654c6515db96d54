// Package compliance decides whether a technical regulation applies to a
// classification code and an optional measured value.
package compliance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
)

// Range is a closed numeric interval. A missing bound is infinite.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RuleSet is the regulation's scope definition.
type RuleSet struct {
	Name    string
	Codes   map[string]struct{}
	Voltage *Range
	Forms   []string
}

// InScope reports whether code is listed by the rule set.
func (rs RuleSet) InScope(code string) bool {
	_, ok := rs.Codes[code]
	return ok
}

type ruleSetDocument struct {
	Name          string       `json:"name"`
	Codes         []string     `json:"tnved_codes"`
	VoltageLimits *voltageJSON `json:"voltage_limits"`
	Forms         formsJSON    `json:"conformity_forms"`
}

type voltageJSON struct {
	Min *float64 `json:"ac_min_v"`
	Max *float64 `json:"ac_max_v"`
}

// formsJSON accepts conformity forms written as a single string or a list.
type formsJSON []string

func (f *formsJSON) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one = strings.TrimSpace(one); one != "" {
			*f = formsJSON{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("conformity_forms must be a string or a list of strings: %w", err)
	}
	for _, s := range many {
		if s = strings.TrimSpace(s); s != "" {
			*f = append(*f, s)
		}
	}
	return nil
}

// ParseRuleSet decodes a regulation document.
func ParseRuleSet(data []byte) (RuleSet, error) {
	var doc ruleSetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return RuleSet{}, fmt.Errorf("decode rule set: %w", err)
	}

	rs := RuleSet{
		Name:  strings.TrimSpace(doc.Name),
		Codes: make(map[string]struct{}, len(doc.Codes)),
		Forms: []string(doc.Forms),
	}
	for _, code := range doc.Codes {
		rs.Codes[strings.TrimSpace(code)] = struct{}{}
	}

	if v := doc.VoltageLimits; v != nil && (v.Min != nil || v.Max != nil) {
		r := Range{Min: math.Inf(-1), Max: math.Inf(1)}
		if v.Min != nil {
			r.Min = *v.Min
		}
		if v.Max != nil {
			r.Max = *v.Max
		}
		if r.Min > r.Max {
			return RuleSet{}, fmt.Errorf("decode rule set: ac_min_v %g exceeds ac_max_v %g", r.Min, r.Max)
		}
		rs.Voltage = &r
	}

	return rs, nil
}

// LoadRuleSet reads the rule set at path. A missing file is an empty rule
// set; an unreadable or malformed file is an empty rule set and a warning.
func LoadRuleSet(path string, logger *slog.Logger) RuleSet {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("rule set unreadable", "path", path, "error", err)
		}
		return RuleSet{}
	}

	rs, err := ParseRuleSet(data)
	if err != nil {
		logger.Warn("rule set malformed", "path", path, "error", err)
		return RuleSet{}
	}
	return rs
}
