package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/simscan-dev/simscan/domain"
)

// CloneFormatter implements the domain.CloneOutputFormatter interface
type CloneFormatter struct{}

// NewCloneFormatter creates a new clone output formatter
func NewCloneFormatter() *CloneFormatter {
	return &CloneFormatter{}
}

// FormatCloneResponse formats a clone response according to the specified format
func (f *CloneFormatter) FormatCloneResponse(response *domain.CloneResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("clone response cannot be nil", nil)
	}
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatAsText formats the response as human-readable text
func (f *CloneFormatter) formatAsText(response *domain.CloneResponse, writer io.Writer) error {
	report := response.Report
	if report == nil {
		fmt.Fprintln(writer, "No report produced.")
		return nil
	}

	fmt.Fprint(writer, FormatMainHeader("Clone Detection Results"))

	fmt.Fprint(writer, FormatSectionHeader("Summary"))
	fmt.Fprintf(writer, "  Files analyzed: %d\n", report.FilesAnalyzed)
	fmt.Fprintf(writer, "  Fragments compared: %d\n", report.TotalFragments)
	fmt.Fprintf(writer, "  Clone pairs found: %d\n", len(report.Pairs))
	fmt.Fprintf(writer, "  Clone groups found: %d\n", len(report.Groups))
	fmt.Fprintf(writer, "  Duplication: %s (%d of %d lines)\n",
		FormatPercentage(report.DuplicationRatio*100), report.DuplicatedLines, report.TotalLines)
	fmt.Fprintf(writer, "  Analysis duration: %dms\n\n", response.Duration)

	if len(report.CountsByType) > 0 {
		fmt.Fprint(writer, FormatSectionHeader("Clone Types"))
		for _, cloneType := range []domain.CloneType{domain.ExactClone, domain.RenamedClone, domain.NearMissClone} {
			if count := report.CountsByType[cloneType.String()]; count > 0 {
				fmt.Fprintf(writer, "  %s: %d pairs\n", f.colorType(cloneType), count)
			}
		}
		fmt.Fprintln(writer)
	}

	if len(report.Pairs) == 0 {
		fmt.Fprintln(writer, "No clones detected.")
		return nil
	}

	if len(response.Suggestions) > 0 {
		fmt.Fprint(writer, FormatSectionHeader("Deduplication Opportunities"))
		f.renderSuggestionTable(response.Suggestions, writer)
		fmt.Fprintln(writer)
	}

	fmt.Fprint(writer, FormatSectionHeader("Clone Pairs"))
	for i, pair := range report.Pairs {
		fmt.Fprintf(writer, "%d. %s (similarity: %.3f", i+1, f.colorType(pair.Type), pair.Similarity)
		if pair.Type == domain.NearMissClone {
			fmt.Fprintf(writer, ", differing lines: %d", pair.DifferingLines)
		}
		fmt.Fprintln(writer, ")")
		fmt.Fprintf(writer, "   A: %s\n", f.fragmentLocation(pair.FragmentA))
		fmt.Fprintf(writer, "   B: %s\n", f.fragmentLocation(pair.FragmentB))
	}
	fmt.Fprintln(writer)

	fmt.Fprint(writer, FormatWarningsSection(report.Warnings))
	return nil
}

// renderSuggestionTable renders the ranked dedup suggestions as a table.
func (f *CloneFormatter) renderSuggestionTable(suggestions []*domain.DedupSuggestion, writer io.Writer) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{"Representative", "Clones", "Type", "Savings (lines)", "Hint"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, suggestion := range suggestions {
		table.Append([]string{
			f.fragmentLocation(suggestion.Representative),
			strconv.Itoa(len(suggestion.Clones)),
			suggestion.Type.String(),
			strconv.Itoa(suggestion.PotentialSavings),
			suggestion.Hint,
		})
	}

	table.Render()
}

// formatAsCSV writes one row per clone pair.
func (f *CloneFormatter) formatAsCSV(response *domain.CloneResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	header := []string{"type", "similarity", "differing_lines", "file_a", "name_a", "start_a", "end_a", "file_b", "name_b", "start_b", "end_b"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	if response.Report != nil {
		for _, pair := range response.Report.Pairs {
			row := []string{
				pair.Type.String(),
				strconv.FormatFloat(pair.Similarity, 'f', 3, 64),
				strconv.Itoa(pair.DifferingLines),
				pair.FragmentA.SourceFile,
				pair.FragmentA.Name,
				strconv.Itoa(pair.FragmentA.StartLine),
				strconv.Itoa(pair.FragmentA.EndLine),
				pair.FragmentB.SourceFile,
				pair.FragmentB.Name,
				strconv.Itoa(pair.FragmentB.StartLine),
				strconv.Itoa(pair.FragmentB.EndLine),
			}
			if err := w.Write(row); err != nil {
				return domain.NewOutputError("failed to write CSV row", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

// fragmentLocation renders a fragment as file:start-end (name).
func (f *CloneFormatter) fragmentLocation(fragment *domain.Fragment) string {
	if fragment == nil {
		return "<none>"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s:%d-%d", fragment.SourceFile, fragment.StartLine, fragment.EndLine)
	if fragment.Name != "" {
		fmt.Fprintf(&builder, " (%s)", fragment.Name)
	}
	return builder.String()
}

// colorType renders a clone type with its severity color.
func (f *CloneFormatter) colorType(cloneType domain.CloneType) string {
	switch cloneType {
	case domain.ExactClone:
		return color.New(color.FgRed).Sprint(cloneType.String())
	case domain.RenamedClone:
		return color.New(color.FgYellow).Sprint(cloneType.String())
	case domain.NearMissClone:
		return color.New(color.FgCyan).Sprint(cloneType.String())
	default:
		return cloneType.String()
	}
}
