package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/copychecker/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the rule of every issue to the output.
	verbose bool

	// now stamps the report header.
	now func() time.Time
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithSimpleClock sets the clock used for the report date.
func WithSimpleClock(now func() time.Time) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeIssues(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with page information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        COPYCHECKER REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Page:      %s\n", report.URL))
	if report.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:     %s\n", report.Title))
	}
	sb.WriteString(fmt.Sprintf("Language:  %s\n", report.Language))
	sb.WriteString(fmt.Sprintf("Date:      %s\n", w.now().Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeSummary writes the per-kind counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	summary := report.Summary()
	if len(summary) == 0 {
		sb.WriteString("  No issues found!\n\n")
		return
	}

	for _, kc := range summary {
		sb.WriteString(fmt.Sprintf("  %d %s\n", kc.Count, GroupLabel(kc.Kind)))
	}
	sb.WriteString(fmt.Sprintf("\n  TOTAL: %d issues\n\n", report.IssueCount()))
}

// writeIssues writes every issue grouped by kind.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, report *model.AnalysisReport) {
	summary := report.Summary()
	if len(summary) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, kc := range summary {
		sb.WriteString(fmt.Sprintf("[%s] (%d instances)\n", GroupLabel(kc.Kind), kc.Count))
		for _, is := range report.IssuesByKind(kc.Kind) {
			sb.WriteString(fmt.Sprintf("  * %s\n", w.issueLine(is.Issue)))
			sb.WriteString(fmt.Sprintf("    Location: %s\n", is.Location()))
		}
		sb.WriteString("\n")
	}
}

// issueLine renders the text of an issue with its suggestion and message.
func (w *SimpleWriter) issueLine(is model.Issue) string {
	line := fmt.Sprintf("%q", is.Text)
	if is.Suggestion != "" {
		line += fmt.Sprintf(" (suggestion: %q)", is.Suggestion)
	}
	if is.Message != "" {
		line += " - " + is.Message
	}
	if w.verbose && is.Rule != "" {
		line += " [" + is.Rule + "]"
	}
	return line
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by CopyChecker\n")
	sb.WriteString("https://github.com/nao1215/copychecker\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
