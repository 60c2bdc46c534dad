package service

import (
	"fmt"

	"github.com/simscan-dev/simscan/domain"
)

// OutputFormatResolver resolves the output format from mutually exclusive
// format flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format.
// Exactly one of json/csv/yaml may be true; if none are true, defaults to text.
func (r *OutputFormatResolver) Determine(json, csv, yaml bool) (domain.OutputFormat, error) {
	formatCount := 0
	var format domain.OutputFormat

	if json {
		formatCount++
		format = domain.OutputFormatJSON
	}
	if csv {
		formatCount++
		format = domain.OutputFormatCSV
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
	}

	if formatCount > 1 {
		return "", fmt.Errorf("only one output format flag can be specified")
	}
	if formatCount == 0 {
		return domain.OutputFormatText, nil
	}
	return format, nil
}
