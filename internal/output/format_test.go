package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"cgf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	type verdict struct {
		Name    string `json:"name" yaml:"name"`
		Allowed bool   `json:"allowed" yaml:"allowed"`
	}
	v := []verdict{{Name: "SDL_Init", Allowed: true}}

	tests := []struct {
		format string
		want   string
	}{
		{"yaml", "- name: SDL_Init\n  allowed: true\n"},
		{"json", "[\n  {\n    \"name\": \"SDL_Init\",\n    \"allowed\": true\n  }\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.format, v); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() =\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}

	var buf bytes.Buffer
	if err := Write(&buf, "xml", v); err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected invalid format error, got %v", err)
	}
}
