// Package report renders analysis reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: Markdown with tables and a mermaid pie chart
//   - JSONWriter: Structured JSON output for tool integration
//   - TSVWriter: Tab-separated export suitable for pasting into a spreadsheet
//
// Every writer names issue kinds through Label and GroupLabel so the
// display strings exist in one place only.
package report
