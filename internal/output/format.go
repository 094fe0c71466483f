// Package output provides the structured output formats of pxdgen commands.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatYAML is the default self-documenting YAML output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"
)

// ParseFormat parses a format string into a Format value.
// Accepts: "yaml", "json" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected yaml or json)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}
