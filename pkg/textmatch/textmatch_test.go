package textmatch_test

import (
	"testing"

	"github.com/JaimeStill/gostcat/pkg/textmatch"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Steel Pipe ", "steel pipe"},
		{"ГОСТ Р 50571", "гост р 50571"},
		{"\t\n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := textmatch.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	fields := []string{"GOST 100", "M", "Steel pipe"}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"text", "steel", true},
		{"key digits", "100", true},
		{"mark", "m", true},
		{"miss", "aluminum", false},
		{"spans key and mark", "100 m", true},
		{"spans mark and text", "m steel", true},
		{"empty never matches", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := textmatch.Normalize(tt.query)
			if got := textmatch.Contains(q, fields...); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", q, got, tt.want)
			}
		})
	}
}

func TestContainsCyrillicCaseFolding(t *testing.T) {
	q := textmatch.Normalize("ТРУБЫ")
	if !textmatch.Contains(q, "ГОСТ 3262-75", "", "Трубы стальные водогазопроводные") {
		t.Error("expected case-insensitive match on Cyrillic text")
	}
}
