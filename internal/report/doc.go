// Package report renders a model.Report for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Aligned plain text for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid pie chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
