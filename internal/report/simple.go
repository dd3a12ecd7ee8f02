package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordcrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the visited and missing document lists.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithTop limits the word table to the n most frequent words.
func WithTop(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.top = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeWords(&sb, report)
	if w.verbose {
		w.writeDocuments(&sb, report)
	}
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      WORD FREQUENCY REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Article:        %s\n", report.Article)
	fmt.Fprintf(sb, "Depth:          %d\n", report.Depth)
	fmt.Fprintf(sb, "Percentile:     %g\n", report.Percentile)
	fmt.Fprintf(sb, "Documents:      %d visited, %d fetched, %d missing\n",
		len(report.Visited), report.DocumentsFetched, len(report.Missing))
	fmt.Fprintf(sb, "Total Words:    %d\n", report.TotalWords)
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	sb.WriteString("\n")
}

// writeWords writes the ranked word table with aligned columns.
func (w *SimpleWriter) writeWords(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	rows := w.rows(report)
	if len(rows) == 0 {
		sb.WriteString("No words to report.\n\n")
		return
	}

	width := len("WORD")
	for _, row := range rows {
		width = max(width, len([]rune(row.Word)))
	}

	fmt.Fprintf(sb, "%5s  %-*s  %8s  %10s\n", "RANK", width, "WORD", "COUNT", "PERCENT")
	for i, row := range rows {
		fmt.Fprintf(sb, "%5d  %-*s  %8d  %10s\n", i+1, width, row.Word, row.Count, formatPercentage(row.Percentage))
	}

	if len(rows) < len(report.WordFrequency) {
		fmt.Fprintf(sb, "\n(showing %d of %d words)\n", len(rows), len(report.WordFrequency))
	}
	sb.WriteString("\n")
}

// writeDocuments writes the visited and missing document lists.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, report *model.Report) {
	sb.WriteString("Visited:\n")
	for _, id := range report.Visited {
		fmt.Fprintf(sb, "  - %s\n", id)
	}
	if len(report.Missing) > 0 {
		sb.WriteString("Missing:\n")
		for _, id := range report.Missing {
			fmt.Fprintf(sb, "  - %s\n", id)
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if report.Duration > 0 {
		fmt.Fprintf(sb, "Completed in %s\n", report.Duration.Round(1e6))
	}
}
