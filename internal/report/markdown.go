package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wordcrawl/internal/model"
)

// maxChartSlices caps the pie chart so it stays readable.
const maxChartSlices = 10

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// chart enables the mermaid pie chart of the top words.
	chart bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTop limits the word table to the n most frequent words.
func WithMarkdownTop(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.top = n
	}
}

// WithChart toggles the mermaid pie chart.
func WithChart(enabled bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.chart = enabled
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		chart:      true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeWords(md, report)
	w.writeDocuments(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Word Frequency Report")
	md.PlainText("")

	ignore := "-"
	if len(report.IgnoreList) > 0 {
		ignore = truncateString(strings.Join(report.IgnoreList, ", "), 60)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Article", "`" + report.Article + "`"},
			{"Depth", strconv.Itoa(report.Depth)},
			{"Percentile", strconv.FormatFloat(report.Percentile, 'f', -1, 64)},
			{"Ignore List", ignore},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Documents Visited", strconv.Itoa(len(report.Visited))},
			{"Documents Fetched", strconv.Itoa(report.DocumentsFetched)},
			{"Total Words", strconv.Itoa(report.TotalWords)},
			{"Distinct Words", strconv.Itoa(len(report.WordFrequency))},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

// writeAlert writes at most one alert describing the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	switch {
	case report.ErrorMessage != "" && !report.Cancelled:
		md.Cautionf("Processing failed: %s", report.ErrorMessage)
	case report.Cancelled:
		md.Warningf(
			"The crawl was interrupted after %d document(s). Results are partial.",
			report.DocumentsFetched,
		)
	case len(report.Missing) > 0:
		md.Importantf(
			"%d document(s) could not be fetched and were skipped with their links.",
			len(report.Missing),
		)
	case report.Truncated:
		md.Note("The document limit was reached before the crawl finished.")
	case len(report.WordFrequency) == 0:
		md.Note("No words passed the filters.")
	default:
		return
	}
	md.PlainText("")
}

// writeWords writes the ranked word table and chart.
func (w *MarkdownWriter) writeWords(md *markdown.Markdown, report *model.Report) {
	md.H2("Word Frequency")
	md.PlainText("")

	rows := w.rows(report)
	if len(rows) == 0 {
		md.PlainText("No words to report.")
		md.PlainText("")
		return
	}

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{
			strconv.Itoa(i + 1),
			row.Word,
			strconv.Itoa(row.Count),
			formatPercentage(row.Percentage),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count", "Percentage"},
		Rows:   table,
	})
	md.PlainText("")

	if len(rows) < len(report.WordFrequency) {
		md.PlainTextf("*Showing %d of %d words.*", len(rows), len(report.WordFrequency))
		md.PlainText("")
	}

	if w.chart {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of the most frequent words.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Top Words"),
		piechart.WithShowData(true),
	)

	for _, row := range report.WordFrequency.Top(maxChartSlices) {
		chart.LabelAndIntValue(row.Word, uint64(row.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDocuments lists visited and missing documents in collapsible blocks.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, report *model.Report) {
	if len(report.Visited) == 0 && len(report.Missing) == 0 {
		return
	}

	md.H2("Documents")
	md.PlainText("")

	if len(report.Visited) > 0 {
		md.Details("Visited ("+strconv.Itoa(len(report.Visited))+")", strings.Join(report.Visited, "\n"))
	}
	if len(report.Missing) > 0 {
		md.PlainText("Missing:")
		md.PlainText("")
		md.BulletList(report.Missing...)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordcrawl](https://github.com/nao1215/wordcrawl)*")
}

// formatPercentage renders a percentage with two decimals.
func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
