package pipeline

import (
	"time"

	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/page"
)

// Scan carries the state of one target through the pipeline.
type Scan struct {
	// Target is the URL or file path given by the user.
	Target string `json:"target"`

	// Language is the variant used for grammar checking.
	Language model.Language `json:"language"`

	// ScannedAt is when the scan started.
	ScannedAt time.Time `json:"scanned_at"`

	// Page is set by LoadStep.
	Page *page.Page `json:"-"`

	// Report is set by AnalyzeStep.
	Report *model.AnalysisReport `json:"report,omitempty"`

	// RecordID is the history id assigned by SaveStep.
	RecordID string `json:"record_id,omitempty"`

	// Error is the error of the step that failed, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text, kept for JSON output.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the steps run so far in order.
	PerformedSteps []string `json:"performed_steps"`
}

// NewScan creates a Scan for target.
func NewScan(target string, lang model.Language) *Scan {
	return &Scan{
		Target:         target,
		Language:       lang,
		ScannedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether a step failed.
func (s *Scan) Failed() bool {
	return s.Error != nil
}
