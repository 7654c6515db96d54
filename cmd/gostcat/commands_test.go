package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/gostcat/internal/compliance"
	"github.com/JaimeStill/gostcat/internal/lookup"
	"github.com/JaimeStill/gostcat/internal/reference"
)

const tnved = `{
  "7208": {"name": "Flat-rolled products of iron", "standards": ["ГОСТ 19903-2015"]},
  "8544": {"name": "Insulated wire and cable", "standards": ["ГОСТ 31996-2012"]}
}`

const regulation = `{
  "name": "TR CU 004/2011",
  "tnved_codes": ["854442"],
  "voltage_limits": {"ac_min_v": 50, "ac_max_v": 1000},
  "conformity_forms": ["declaration", "certificate"]
}`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	for name, body := range map[string]string{
		"tnved_data.json": tnved,
		"regulation.json": regulation,
		"gost_data.json":  `{"ГОСТ 380-2005": "Carbon steel of ordinary quality"}`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("gostcat %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func TestSearchLegacyRecord(t *testing.T) {
	setup(t)

	var result lookup.Result
	if err := json.Unmarshal([]byte(execute(t, "--format", "json", "search", "carbon")), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Matches) != 1 || result.Matches[0].Key != "ГОСТ 380-2005" {
		t.Errorf("matches = %+v", result.Matches)
	}
}

func TestAddThenRemove(t *testing.T) {
	dir := setup(t)

	out := execute(t, "add", "ГОСТ 1050-2013", "--mark", "45", "--text", "Quality carbon steel bars")
	if !strings.Contains(out, "Saved ГОСТ 1050-2013") {
		t.Errorf("add output = %q", out)
	}
	if !strings.Contains(out, "mirror: skipped") {
		t.Errorf("add output missing mirror outcome: %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gost_data.json"))
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode store: %v", err)
	}
	if _, ok := doc["ГОСТ 1050-2013"]; !ok {
		t.Fatal("record not persisted")
	}

	out = execute(t, "remove", "ГОСТ 1050-2013", "--no-sync")
	if strings.Contains(out, "mirror:") {
		t.Errorf("--no-sync still reported a mirror outcome: %q", out)
	}

	if got := execute(t, "search", "45"); !strings.Contains(got, "No catalog match") {
		t.Errorf("search after remove = %q", got)
	}
}

func TestReference(t *testing.T) {
	setup(t)

	var matches []reference.Match
	if err := json.Unmarshal([]byte(execute(t, "--format", "json", "reference", "cable")), &matches); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(matches) != 1 || matches[0].Code != "8544" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestCheck(t *testing.T) {
	setup(t)

	tests := []struct {
		name    string
		args    []string
		applies bool
		reason  string
	}{
		{"in scope", []string{"854442", "220"}, true, compliance.ReasonInScope},
		{"out of range", []string{"854442", "5000"}, false, compliance.ReasonOutOfRange},
		{"out of scope", []string{"720810"}, false, compliance.ReasonOutOfScope},
		{"invalid code", []string{"85"}, false, compliance.ReasonInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "check"}, tt.args...)

			var d compliance.Decision
			if err := json.Unmarshal([]byte(execute(t, args...)), &d); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if d.Applies != tt.applies || d.Reason != tt.reason {
				t.Errorf("decision = %+v, want applies=%v reason=%q", d, tt.applies, tt.reason)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	setup(t)

	out := execute(t, "status")
	for _, want := range []string{"1 records, 1 legacy", "2 codes", "TR CU 004/2011", "mirror:     disabled", "assistant:  disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestInvalidFormat(t *testing.T) {
	setup(t)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "yaml", "status"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
