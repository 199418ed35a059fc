// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-extractor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidateRecord outputs a human-readable summary of an extracted record.
func (p *Printer) PrintCandidateRecord(record *types.CandidateRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", record.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", record.Phone))
	sb.WriteString(fmt.Sprintf("Method:   %s", record.ExtractionMethod))
	if record.RawConfidence != nil {
		sb.WriteString(fmt.Sprintf(" (confidence %.2f)", *record.RawConfidence))
	}
	sb.WriteString("\n\n")

	if len(record.Skills) > 0 {
		skills := strings.Join(record.Skills, ", ")
		if len(skills) > 50 {
			skills = skills[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}

	if len(record.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(record.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := record.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", entry.Title))
			if entry.Organization != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", entry.Organization))
			}
			sb.WriteString("\n")
		}
		if len(record.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Experience)-maxItemsToShow))
		}
	}

	if len(record.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(record.Education), 3)
		for i := 0; i < count; i++ {
			entry := record.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s", entry.Institution))
			if entry.Degree != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", entry.Degree))
			}
			sb.WriteString("\n")
		}
		if len(record.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Education)-3))
		}
	}

	title := fmt.Sprintf("EXTRACTED RECORD [%s]", record.SourceModel)
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintModelResults outputs one line per model for a processed document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintModelResults(docID string, results map[string]types.ModelResult) {
	models := make([]string, 0, len(results))
	for model := range results {
		models = append(models, model)
	}
	sort.Strings(models)

	var sb strings.Builder
	for _, model := range models {
		result := results[model]
		if result.Failure != nil {
			message := result.Failure.Message
			if len(message) > 30 {
				message = message[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf("✗ %-14s %s: %s\n", model, result.Failure.ErrorKind, message))
			continue
		}
		name := "(no name)"
		if result.Record != nil && result.Record.Name != "" {
			name = result.Record.Name
		}
		sb.WriteString(fmt.Sprintf("✓ %-14s %s\n", model, name))
	}

	title := fmt.Sprintf("RESULTS FOR %s", docID)
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluationReport outputs per-model mean field scores across a document set.
func (p *Printer) PrintEvaluationReport(report *types.EvaluationReport) {
	if report == nil || len(report.Models) == 0 {
		return
	}

	var sb strings.Builder
	if len(report.DocumentsSkipped) > 0 {
		sb.WriteString(fmt.Sprintf("Skipped %d documents without ground truth\n\n", len(report.DocumentsSkipped)))
	}

	models := make([]string, 0, len(report.Models))
	for model := range report.Models {
		models = append(models, model)
	}
	sort.Strings(models)

	for i, model := range models {
		modelReport := report.Models[model]
		sb.WriteString(fmt.Sprintf("%s  (%d docs)\n", model, modelReport.DocumentsScored))
		sb.WriteString(fmt.Sprintf("  overall: %.3f\n", modelReport.Overall))

		fields := make([]string, 0, len(modelReport.FieldMeans))
		for field := range modelReport.FieldMeans {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			sb.WriteString(fmt.Sprintf("  %-15s %.3f\n", field, modelReport.FieldMeans[field]))
		}
		if i < len(models)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EVALUATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
