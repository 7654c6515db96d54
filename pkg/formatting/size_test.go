package formatting_test

import (
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/gostcat/pkg/formatting"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    formatting.Size
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512B", 512, false},
		{"1KB", 1024, false},
		{"10MB", 10 << 20, false},
		{"10mb", 10 << 20, false},
		{"1.5 MB", 3 << 19, false},
		{"  2GB ", 2 << 30, false},
		{"0", 0, false},
		{"", 0, true},
		{"MB", 0, true},
		{"-5MB", 0, true},
		{"5XB", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		size formatting.Size
		want string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1024, "1 KB"},
		{1536 << 10, "1.5 MB"},
		{10 << 20, "10 MB"},
		{3 << 30, "3 GB"},
	}

	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("Size(%d).String() = %q, want %q", int64(tt.size), got, tt.want)
		}
	}
}

func TestSizeTOML(t *testing.T) {
	var doc struct {
		Limit formatting.Size `toml:"limit"`
	}

	if err := toml.Unmarshal([]byte(`limit = "25MB"`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Limit.Bytes() != 25<<20 {
		t.Errorf("Limit = %d, want %d", doc.Limit.Bytes(), 25<<20)
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc.Limit = 0
	if err := toml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if doc.Limit.Bytes() != 25<<20 {
		t.Errorf("round trip = %d, want %d", doc.Limit.Bytes(), 25<<20)
	}

	if err := toml.Unmarshal([]byte(`limit = "huge"`), &doc); err == nil {
		t.Error("expected error for invalid size")
	}
}
