package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Document is the key to record mapping persisted as one JSON object.
//
// Values are decoded at this boundary: a JSON string is the legacy shape and
// becomes Record{Text: s}; an object is the current shape; any other value is
// legacy with its literal JSON text. Entries that are never modified keep
// their original encoding, so saving one change never rewrites other records.
type Document struct {
	entries map[string]entry
}

type entry struct {
	record Record
	legacy bool
	// raw is the original encoding, dropped once the entry is modified.
	raw json.RawMessage
	// extra holds unknown fields of an object entry.
	extra map[string]json.RawMessage
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{entries: make(map[string]entry)}
}

// ParseDocument decodes a persisted document. The top level must be a JSON
// object (or null).
func ParseDocument(data []byte) (*Document, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := NewDocument()
	for key, raw := range values {
		e, err := decodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("parse record %q: %w", key, err)
		}
		doc.entries[key] = e
	}
	return doc, nil
}

func decodeEntry(raw json.RawMessage) (entry, error) {
	raw = bytes.TrimSpace(raw)
	e := entry{raw: slices.Clone(raw)}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return entry{}, err
		}
		e.record = Record{Text: s}
		e.legacy = true
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return entry{}, err
		}
		e.record = Record{
			Text:  stringValue(fields["text"]),
			Mark:  stringValue(fields["mark"]),
			Image: stringValue(fields["image"]),
		}
		delete(fields, "text")
		delete(fields, "mark")
		delete(fields, "image")
		if len(fields) > 0 {
			e.extra = fields
		}
	default:
		e.record = Record{Text: string(raw)}
		e.legacy = true
	}

	return e, nil
}

// stringValue reads a JSON string field; null or absent is empty and any
// other value is kept as its literal JSON text.
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Len returns the number of records.
func (d *Document) Len() int {
	return len(d.entries)
}

// Get returns the normalized record for key.
func (d *Document) Get(key string) (Record, bool) {
	e, ok := d.entries[key]
	return e.record, ok
}

// Entry returns the read view of key.
func (d *Document) Entry(key string) (Entry, bool) {
	e, ok := d.entries[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{Key: key, Record: e.record, Legacy: e.legacy}, true
}

// Entries returns every record ordered by key.
func (d *Document) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, key := range d.Keys() {
		e := d.entries[key]
		out = append(out, Entry{Key: key, Record: e.record, Legacy: e.legacy})
	}
	return out
}

// Keys returns the record keys in sorted order.
func (d *Document) Keys() []string {
	return slices.Sorted(maps.Keys(d.entries))
}

// Set stores rec under key in the current shape. Unknown fields of an
// existing object entry are kept.
func (d *Document) Set(key string, rec Record) {
	prev := d.entries[key]
	d.entries[key] = entry{record: rec, extra: prev.extra}
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	if _, ok := d.entries[key]; !ok {
		return false
	}
	delete(d.entries, key)
	return true
}

// Encode serializes the document deterministically: keys sorted, four-space
// indentation, no HTML escaping, non-ASCII text written as UTF-8.
func (d *Document) Encode() ([]byte, error) {
	values := make(map[string]json.RawMessage, len(d.entries))
	for key, e := range d.entries {
		raw, err := e.encode()
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", key, err)
		}
		values[key] = raw
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e entry) encode() (json.RawMessage, error) {
	if e.raw != nil {
		return e.raw, nil
	}

	obj := make(map[string]any, len(e.extra)+3)
	for k, v := range e.extra {
		obj[k] = v
	}
	obj["text"] = e.record.Text
	obj["mark"] = e.record.Mark
	if e.record.Image != "" {
		obj["image"] = e.record.Image
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
