package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/copychecker/internal/analysis"
	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/page"
)

var (
	// ErrNoPage is returned by AnalyzeStep when no page was loaded.
	ErrNoPage = errors.New("no page loaded")

	// ErrNoReport is returned by SaveStep when there is nothing to save.
	ErrNoReport = errors.New("no report to save")
)

// LoadStep fetches and parses the target into a page.
type LoadStep struct {
	loader *page.Loader
}

// NewLoadStep creates a LoadStep using loader.
func NewLoadStep(loader *page.Loader) *LoadStep {
	return &LoadStep{loader: loader}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads scan.Target into scan.Page.
func (s *LoadStep) Do(ctx context.Context, scan *Scan) error {
	p, err := s.loader.Load(ctx, scan.Target)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", scan.Target, err)
	}
	scan.Page = p
	return nil
}

// AnalyzeStep checks the loaded page.
type AnalyzeStep struct {
	analyzer *analysis.Analyzer
}

// NewAnalyzeStep creates an AnalyzeStep using analyzer.
func NewAnalyzeStep(analyzer *analysis.Analyzer) *AnalyzeStep {
	return &AnalyzeStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes scan.Page and stores the result in scan.Report.
func (s *AnalyzeStep) Do(ctx context.Context, scan *Scan) error {
	if scan.Page == nil {
		return ErrNoPage
	}

	report, err := s.analyzer.Analyze(ctx, scan.Page.Document, scan.Language)
	if err != nil {
		return fmt.Errorf("analysis of %s interrupted: %w", scan.Target, err)
	}
	report.Title = scan.Page.Title
	scan.Report = report
	return nil
}

// ReportSaver stores analysis reports.
type ReportSaver interface {
	// SaveReport stores report and returns its record id.
	SaveReport(ctx context.Context, report *model.AnalysisReport, scannedAt time.Time) (string, error)
}

// SaveStep stores the report in the history.
type SaveStep struct {
	saver  ReportSaver
	logger *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a SaveStep using saver.
func NewSaveStep(saver ReportSaver, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		saver:  saver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves scan.Report and records the id in scan.RecordID.
func (s *SaveStep) Do(ctx context.Context, scan *Scan) error {
	if scan.Report == nil {
		return ErrNoReport
	}

	id, err := s.saver.SaveReport(ctx, scan.Report, scan.ScannedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	scan.RecordID = id

	s.logger.Debug("report saved",
		"target", scan.Target,
		"id", id,
	)
	return nil
}

// DefaultPipeline creates the standard scan pipeline: load, analyze and,
// when saver is non-nil, save.
func DefaultPipeline(loader *page.Loader, analyzer *analysis.Analyzer, saver ReportSaver, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewLoadStep(loader),
		NewAnalyzeStep(analyzer),
	)
	if saver != nil {
		p.AddStep(NewSaveStep(saver, WithSaveLogger(p.logger)))
	}
	return p
}
