package compliance

import (
	"math"
	"strconv"
	"strings"
)

// Decision reasons.
const (
	ReasonInvalidCode = "invalid code format"
	ReasonOutOfScope  = "code out of scope"
	ReasonOutOfRange  = "value out of range"
	ReasonInScope     = "in scope"
)

// MinCodeLength is the shortest accepted classification code.
const MinCodeLength = 6

// Decision is the outcome of an evaluation. Regulation and Forms are set
// only when the regulation applies.
type Decision struct {
	Applies    bool     `json:"applies"`
	Reason     string   `json:"reason"`
	Regulation string   `json:"regulation,omitempty"`
	Forms      []string `json:"forms,omitempty"`
}

// Evaluate applies the rule set to code and an optional measured value.
// Checks run in order and the first failure decides: code format, code
// scope, then value range. A blank or non-numeric value skips the range
// check, as does a rule set without a range.
func Evaluate(rules RuleSet, code, value string) Decision {
	if !validCode(code) {
		return Decision{Reason: ReasonInvalidCode}
	}

	if !rules.InScope(code) {
		return Decision{Reason: ReasonOutOfScope}
	}

	if v, ok := parseValue(value); ok && rules.Voltage != nil && !rules.Voltage.Contains(v) {
		return Decision{Reason: ReasonOutOfRange}
	}

	forms := rules.Forms
	if forms == nil {
		forms = []string{}
	}

	return Decision{
		Applies:    true,
		Reason:     ReasonInScope,
		Regulation: rules.Name,
		Forms:      forms,
	}
}

func validCode(code string) bool {
	if len(code) < MinCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// parseValue accepts a decimal comma. NaN and infinities are not values.
func parseValue(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
