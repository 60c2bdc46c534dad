package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/simscan-dev/simscan/domain"
)

// ConsolidationFormatter implements the domain.ConsolidationOutputFormatter interface
type ConsolidationFormatter struct{}

// NewConsolidationFormatter creates a new consolidation output formatter
func NewConsolidationFormatter() *ConsolidationFormatter {
	return &ConsolidationFormatter{}
}

// FormatConsolidationResponse formats a consolidation response according to the specified format
func (f *ConsolidationFormatter) FormatConsolidationResponse(response *domain.ConsolidationResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("consolidation response cannot be nil", nil)
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
func (f *ConsolidationFormatter) formatAsText(response *domain.ConsolidationResponse, writer io.Writer) error {
	report := response.Report
	if report == nil {
		fmt.Fprintln(writer, "No report produced.")
		return nil
	}

	fmt.Fprint(writer, FormatMainHeader("Consolidation Report"))

	fmt.Fprint(writer, FormatSectionHeader("Summary"))
	fmt.Fprintf(writer, "  Files examined: %d\n", report.FileCount)
	fmt.Fprintf(writer, "  Sibling groups: %d\n", report.GroupCount)
	fmt.Fprintf(writer, "  Proposals above threshold: %d\n", len(report.Entries))
	fmt.Fprintf(writer, "  Analysis duration: %dms\n\n", response.Duration)

	if len(report.Entries) == 0 {
		fmt.Fprintln(writer, "No consolidation opportunities found.")
		fmt.Fprint(writer, FormatWarningsSection(report.Warnings))
		return nil
	}

	fmt.Fprint(writer, FormatSectionHeader("Proposed Masters"))
	f.renderEntryTable(report.Entries, writer)
	fmt.Fprintln(writer)

	for _, entry := range report.Entries {
		fmt.Fprintf(writer, "%s (%d siblings, confidence %s, mean affinity %.3f)\n",
			entry.FileName, entry.SiblingCount, f.colorConfidence(entry.Confidence), entry.MeanAffinity)
		fmt.Fprintf(writer, "  master: %s\n", entry.MasterPath)
		for _, reason := range entry.Reasons {
			fmt.Fprintf(writer, "    - %s\n", reason)
		}
		for _, sibling := range entry.Siblings {
			fmt.Fprintf(writer, "  sibling: %s (%d bytes)\n", sibling.FilePath, sibling.Size)
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprint(writer, FormatWarningsSection(report.Warnings))
	return nil
}

// renderEntryTable renders the per-group summary table.
func (f *ConsolidationFormatter) renderEntryTable(entries []*domain.ConsolidationEntry, writer io.Writer) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{"File", "Siblings", "Proposed Master", "Confidence", "Mean Affinity"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, entry := range entries {
		table.Append([]string{
			entry.FileName,
			strconv.Itoa(entry.SiblingCount),
			entry.MasterPath,
			strconv.FormatFloat(entry.Confidence, 'f', 2, 64),
			strconv.FormatFloat(entry.MeanAffinity, 'f', 3, 64),
		})
	}

	table.Render()
}

// formatAsCSV writes one row per sibling group entry.
func (f *ConsolidationFormatter) formatAsCSV(response *domain.ConsolidationResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	header := []string{"file_name", "sibling_count", "master_path", "master_directory", "confidence", "mean_affinity"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	if response.Report != nil {
		for _, entry := range response.Report.Entries {
			row := []string{
				entry.FileName,
				strconv.Itoa(entry.SiblingCount),
				entry.MasterPath,
				entry.MasterDirectory,
				strconv.FormatFloat(entry.Confidence, 'f', 2, 64),
				strconv.FormatFloat(entry.MeanAffinity, 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				return domain.NewOutputError("failed to write CSV row", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

// colorConfidence renders a confidence value shaded by how decisive it is.
func (f *ConsolidationFormatter) colorConfidence(confidence float64) string {
	text := strconv.FormatFloat(confidence, 'f', 2, 64)
	switch {
	case confidence >= 0.8:
		return color.New(color.FgGreen).Sprint(text)
	case confidence >= 0.6:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}
