package analysis

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/copychecker/internal/dom"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/model"
)

// LocalDetector finds issues in a text without network access.
type LocalDetector interface {
	Detect(text string) []model.Issue
}

// RemoteChecker finds spelling and grammar issues of a segment. It must not
// fail; errors are reported as no issues.
type RemoteChecker interface {
	Check(ctx context.Context, seg dom.Segment, lang model.Language) []model.Issue
}

// Analyzer produces analysis reports. It holds no per-page state and is
// safe for concurrent use if its detectors are.
type Analyzer struct {
	local       LocalDetector
	remote      RemoteChecker
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConcurrency sets how many segments are checked at once.
// Values below 1 are ignored; the default is 1.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records every analysis in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewAnalyzer creates an Analyzer. remote may be nil to run local
// detection only.
func NewAnalyzer(local LocalDetector, remote RemoteChecker, opts ...Option) *Analyzer {
	a := &Analyzer{
		local:       local,
		remote:      remote,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts and checks doc. The report's URL is taken from doc.URL.
func (a *Analyzer) Analyze(ctx context.Context, doc *dom.Document, lang model.Language) (*model.AnalysisReport, error) {
	start := time.Now()

	segments := dom.NewSegmentation(dom.Extract(doc, dom.WithLogger(a.logger))).Segments
	a.logger.Debug("extracted text segments", "segments", len(segments))

	groups, err := a.check(ctx, segments, lang)

	report := &model.AnalysisReport{Language: lang, Groups: groups}
	if doc != nil && doc.URL != nil {
		report.URL = doc.URL.String()
	}
	a.metrics.RecordAnalysis(report, len(segments), time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return report, nil
}

// check runs the detectors on every segment and returns the non-empty
// groups in segment order.
func (a *Analyzer) check(ctx context.Context, segments []dom.Segment, lang model.Language) ([]model.LocatedIssueGroup, error) {
	// one slot per segment, written by index so order survives concurrency
	slots := make([][]model.Issue, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, seg := range segments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = a.checkSegment(gctx, seg, lang)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the remote checker swallows cancellation, so look again
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups := make([]model.LocatedIssueGroup, 0)
	for i, issues := range slots {
		if len(issues) == 0 {
			continue
		}
		groups = append(groups, model.LocatedIssueGroup{
			Path:    segments[i].Locator,
			Issues:  issues,
			Context: model.NewGroupContext(segments[i].Kind),
			Segment: segments[i].Text,
		})
	}
	return groups, nil
}

// checkSegment returns the local issues of seg followed by its remote issues.
func (a *Analyzer) checkSegment(ctx context.Context, seg dom.Segment, lang model.Language) []model.Issue {
	var issues []model.Issue
	if a.local != nil {
		issues = append(issues, a.local.Detect(seg.Text)...)
	}
	if a.remote != nil {
		issues = append(issues, a.remote.Check(ctx, seg, lang)...)
	}
	return issues
}
