// Package lookup is the query engine: substring search over the record
// catalog with an AI fallback when nothing matches, search over the
// reference table, and a combined status report.
package lookup

import (
	"github.com/JaimeStill/gostcat/internal/assistant"
	"github.com/JaimeStill/gostcat/pkg/mirror"
)

// Match is a record selected by a search.
type Match struct {
	Key   string `json:"key"`
	Mark  string `json:"mark"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Fallback is an assistant answer. It is never a catalog record and is
// always marked synthetic.
type Fallback struct {
	Text      string `json:"text"`
	Synthetic bool   `json:"synthetic"`
	Source    string `json:"source"`
}

// Result holds either catalog matches or a fallback answer, never both.
type Result struct {
	Query    string    `json:"query"`
	Matches  []Match   `json:"matches"`
	Fallback *Fallback `json:"fallback,omitempty"`
}

// Status reports the state of every data source the service reads.
type Status struct {
	Store           string         `json:"store"`
	Records         int            `json:"records"`
	LegacyRecords   int            `json:"legacy_records"`
	ReferenceCodes  int            `json:"reference_codes"`
	Regulation      string         `json:"regulation"`
	RegulationCodes int            `json:"regulation_codes"`
	Mirror          mirror.State   `json:"mirror"`
	Assistant       assistant.Info `json:"assistant"`
}
