package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/gostcat/internal/compliance"
	"github.com/JaimeStill/gostcat/internal/lookup"
	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/internal/reference"
	"github.com/JaimeStill/gostcat/pkg/mirror"
)

type formatter struct {
	json bool
	w    io.Writer
}

func newFormatter(format string, w io.Writer) *formatter {
	return &formatter{json: format == "json", w: w}
}

// emit writes v as indented JSON, or calls text for the text format.
func (f *formatter) emit(v any, text func(w io.Writer)) error {
	if f.json {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
	text(f.w)
	return nil
}

func (f *formatter) result(r lookup.Result) error {
	return f.emit(r, func(w io.Writer) {
		if r.Fallback != nil {
			fmt.Fprintf(w, "No catalog match for %q. Answer from %s:\n\n%s\n", r.Query, r.Fallback.Source, r.Fallback.Text)
			return
		}
		if len(r.Matches) == 0 {
			fmt.Fprintln(w, "No results.")
			return
		}
		for _, m := range r.Matches {
			fmt.Fprintln(w, m.Key)
			if m.Mark != "" {
				fmt.Fprintf(w, "  mark:  %s\n", m.Mark)
			}
			if m.Text != "" {
				fmt.Fprintf(w, "  text:  %s\n", m.Text)
			}
			if m.Image != "" {
				fmt.Fprintf(w, "  image: %s\n", m.Image)
			}
		}
	})
}

func (f *formatter) references(matches []reference.Match) error {
	return f.emit(matches, func(w io.Writer) {
		if len(matches) == 0 {
			fmt.Fprintln(w, "No results.")
			return
		}
		for _, m := range matches {
			fmt.Fprintf(w, "%s  %s\n", m.Code, m.Name)
			if len(m.Standards) > 0 {
				fmt.Fprintf(w, "  standards: %s\n", strings.Join(m.Standards, ", "))
			}
		}
	})
}

func (f *formatter) decision(d compliance.Decision) error {
	return f.emit(d, func(w io.Writer) {
		if !d.Applies {
			fmt.Fprintf(w, "Not applicable: %s\n", d.Reason)
			return
		}
		fmt.Fprintf(w, "Applies: %s\n", d.Regulation)
		if len(d.Forms) > 0 {
			fmt.Fprintf(w, "  conformity forms: %s\n", strings.Join(d.Forms, ", "))
		}
	})
}

func (f *formatter) entry(e *records.Entry, out *mirror.Outcome) error {
	v := struct {
		Record *records.Entry  `json:"record"`
		Mirror *mirror.Outcome `json:"mirror,omitempty"`
	}{e, out}

	return f.emit(v, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %s\n", e.Key)
		writeOutcome(w, out)
	})
}

func (f *formatter) removed(key string, out *mirror.Outcome) error {
	v := struct {
		Removed string          `json:"removed"`
		Mirror  *mirror.Outcome `json:"mirror,omitempty"`
	}{key, out}

	return f.emit(v, func(w io.Writer) {
		fmt.Fprintf(w, "Removed %s\n", key)
		writeOutcome(w, out)
	})
}

func (f *formatter) outcome(out mirror.Outcome) error {
	return f.emit(out, func(w io.Writer) {
		writeOutcome(w, &out)
	})
}

func (f *formatter) status(s lookup.Status) error {
	return f.emit(s, func(w io.Writer) {
		fmt.Fprintf(w, "store:      %s (%d records, %d legacy)\n", s.Store, s.Records, s.LegacyRecords)
		fmt.Fprintf(w, "reference:  %d codes\n", s.ReferenceCodes)
		fmt.Fprintf(w, "regulation: %s (%d codes)\n", s.Regulation, s.RegulationCodes)
		if s.Mirror.Enabled {
			fmt.Fprintf(w, "mirror:     %s (%s)\n", s.Mirror.Target, s.Mirror.Policy)
		} else {
			fmt.Fprintf(w, "mirror:     disabled (%s)\n", s.Mirror.Reason)
		}
		if s.Assistant.Enabled {
			fmt.Fprintf(w, "assistant:  %s\n", s.Assistant.Name)
		} else {
			fmt.Fprintf(w, "assistant:  disabled (%s)\n", s.Assistant.Reason)
		}
	})
}

func writeOutcome(w io.Writer, out *mirror.Outcome) {
	if out == nil {
		return
	}
	fmt.Fprintf(w, "mirror: %s", out.Status)
	if out.Version != "" {
		fmt.Fprintf(w, " (version %s)", out.Version)
	}
	if out.Error != "" {
		fmt.Fprintf(w, ": %s", out.Error)
	}
	fmt.Fprintln(w)
}
