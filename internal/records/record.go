// Package records implements the GOST record catalog: the key to record
// document, its persistence backends, the single-writer store that commits
// mutations and hands them to the mirror, and the HTTP surface over it.
package records

import (
	"io"
	"strings"
)

// Record is the canonical in-memory shape of a catalog entry.
type Record struct {
	Text  string `json:"text"`
	Mark  string `json:"mark"`
	Image string `json:"image,omitempty"`
}

// Entry is the read view of a keyed record. Legacy reports that the stored
// value is still the plain-text shape.
type Entry struct {
	Key string `json:"key"`
	Record
	Legacy bool `json:"legacy"`
}

// Fields carries the editable parts of a record.
type Fields struct {
	Mark string
	Text string
}

func (f Fields) normalize() Fields {
	return Fields{
		Mark: strings.TrimSpace(f.Mark),
		Text: strings.TrimSpace(f.Text),
	}
}

// CreateCommand adds a record or overwrites the record with the same key.
type CreateCommand struct {
	Key  string `json:"key" validate:"required,max=256"`
	Mark string `json:"mark" validate:"max=256"`
	Text string `json:"text"`
}

// UpdateCommand replaces the structured fields of an existing record.
type UpdateCommand struct {
	Mark string `json:"mark" validate:"max=256"`
	Text string `json:"text"`
}

// ImageCommand carries an uploaded image for a record.
type ImageCommand struct {
	Data        io.Reader
	Filename    string
	ContentType string
}
