package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/copychecker/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing, using github.com/nao1215/markdown for tables and alerts.
type MarkdownWriter struct {
	baseWriter

	now func() time.Time
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownClock sets the clock used for the report date.
func WithMarkdownClock(now func() time.Time) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeIssues(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with page information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("CopyChecker Report")
	md.PlainText("")

	rows := [][]string{{"Page", "`" + report.URL + "`"}}
	if report.Title != "" {
		rows = append(rows, []string{"Title", escapeCell(report.Title)})
	}
	rows = append(rows,
		[]string{"Language", string(report.Language)},
		[]string{"Date", w.now().Format("2006-01-02 15:04:05 MST")},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the per-kind counts, a pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Summary")
	md.PlainText("")

	summary := report.Summary()
	if len(summary) == 0 {
		md.Tip("No issues found!")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary)+1)
	for _, kc := range summary {
		rows = append(rows, []string{GroupLabel(kc.Kind), strconv.Itoa(kc.Count)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(report.IssueCount()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Type", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)

	md.Warningf("%d issue(s) found in %d text segment(s).", report.IssueCount(), len(report.Groups))
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the issue kinds.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary []model.KindCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Type Distribution"),
		piechart.WithShowData(true),
	)
	for _, kc := range summary {
		chart.LabelAndIntValue(GroupLabel(kc.Kind), uint64(kc.Count))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeIssues writes one table per issue kind.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.AnalysisReport) {
	summary := report.Summary()
	if len(summary) == 0 {
		return
	}

	md.H2("Issues")
	md.PlainText("")

	for _, kc := range summary {
		md.H3(GroupLabel(kc.Kind) + " (" + strconv.Itoa(kc.Count) + " instances)")
		md.PlainText("")

		issues := report.IssuesByKind(kc.Kind)
		rows := make([][]string, len(issues))
		for i, is := range issues {
			detail := issueDetail(is.Issue)
			if detail == "" {
				detail = "-"
			}
			rows[i] = []string{
				"`" + strings.TrimSpace(escapeCell(is.Text)) + "`",
				truncateString(escapeCell(detail), 80),
				"`" + escapeCell(is.Location()) + "`",
			}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Issue", "Suggestion", "Location"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [CopyChecker](https://github.com/nao1215/copychecker)*")
}

// escapeCell keeps text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
