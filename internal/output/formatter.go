package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Formatter writes a value in one output format.
type Formatter interface {
	FormatToWriter(w io.Writer, v interface{}) error
}

// YAMLFormatter formats values as YAML with two-space indentation.
type YAMLFormatter struct{}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return encoder.Close()
}

// JSONFormatter formats values as indented JSON.
type JSONFormatter struct{}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// GetFormatter returns the formatter for format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Write parses format and writes v with the matching formatter.
func Write(w io.Writer, format string, v interface{}) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	formatter, err := GetFormatter(f)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(w, v)
}
