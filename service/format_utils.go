package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simscan-dev/simscan/domain"
)

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	SectionPadding = 2
)

// FormatMainHeader creates a standardized main header
func FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func FormatSectionHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToUpper(title) + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatWarningsSection renders non-fatal degradations collected during a
// run. Empty input renders nothing.
func FormatWarningsSection(warnings []domain.Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(FormatSectionHeader("WARNINGS"))
	for _, warning := range warnings {
		if warning.FilePath != "" {
			builder.WriteString(fmt.Sprintf("%s[%s] %s: %s\n",
				strings.Repeat(" ", SectionPadding), warning.Operation, warning.FilePath, warning.Message))
		} else {
			builder.WriteString(fmt.Sprintf("%s[%s] %s\n",
				strings.Repeat(" ", SectionPadding), warning.Operation, warning.Message))
		}
	}
	builder.WriteString("\n")
	return builder.String()
}

// FormatPercentage formats a percentage value consistently
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
