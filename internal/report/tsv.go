package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/copychecker/internal/model"
)

// TSVWriter outputs the plain-text export meant for the clipboard: a short
// header, per-kind counts and a tab-separated table of every issue that
// pastes cleanly into a spreadsheet.
type TSVWriter struct {
	baseWriter

	now func() time.Time
}

// TSVWriterOption configures a TSVWriter.
type TSVWriterOption func(*TSVWriter)

// WithTSVClock sets the clock used for the Date line.
func WithTSVClock(now func() time.Time) TSVWriterOption {
	return func(w *TSVWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// NewTSVWriter creates a TSVWriter that outputs to the given writer.
func NewTSVWriter(output io.Writer, opts ...TSVWriterOption) *TSVWriter {
	w := &TSVWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as the tab-separated export.
func (w *TSVWriter) Write(report *model.AnalysisReport) (int, error) {
	lines := []string{
		"CopyChecker Report",
		"Language: " + string(report.Language),
		"Date: " + w.now().Format("2006-01-02 15:04:05"),
		"",
		"Summary:",
	}

	summary := report.Summary()
	for _, kc := range summary {
		lines = append(lines, GroupLabel(kc.Kind)+": "+strconv.Itoa(kc.Count)+" instances")
	}
	lines = append(lines, "", "Detailed Issues:", "Type\tIssue\tSuggestion\tLocation")

	for _, kc := range summary {
		for _, is := range report.IssuesByKind(kc.Kind) {
			lines = append(lines, strings.Join([]string{
				Label(kc.Kind),
				tsvField(strings.TrimSpace(is.Text)),
				tsvField(issueDetail(is.Issue)),
				tsvField(is.Location()),
			}, "\t"))
		}
	}

	return io.WriteString(w.output, strings.Join(lines, "\n")+"\n")
}

// tsvField replaces tabs and line breaks so a value stays in its cell.
func tsvField(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}
