// Package formatting parses and prints human-readable values used in
// configuration and error messages.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// Size is a byte count written with base-1024 units ("10MB", "512 kb").
// It decodes from TOML and JSON strings.
type Size int64

// ParseSize parses s into a Size. A bare number is a count of bytes.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	exp := 0
	if m[2] != "" {
		exp = slices.Index(units, strings.ToUpper(m[2]))
		if exp < 0 {
			return 0, fmt.Errorf("invalid size %q: unknown unit %q", s, m[2])
		}
	}

	bytes := n * math.Pow(1024, float64(exp))
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("invalid size %q: overflows", s)
	}
	return Size(bytes), nil
}

// Bytes returns the size as a plain byte count.
func (s Size) Bytes() int64 {
	return int64(s)
}

// String prints the size in the largest unit that keeps the value at or
// above one, with at most one decimal place.
func (s Size) String() string {
	if s < 1024 {
		return strconv.FormatInt(int64(s), 10) + " B"
	}

	v := float64(s)
	exp := 0
	for v >= 1024 && exp < len(units)-1 {
		v /= 1024
		exp++
	}

	text := strconv.FormatFloat(v, 'f', 1, 64)
	text = strings.TrimSuffix(text, ".0")
	return text + " " + units[exp]
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(strings.ReplaceAll(s.String(), " ", "")), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
