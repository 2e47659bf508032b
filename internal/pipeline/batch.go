package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/copychecker/internal/model"
)

// BatchProcessor scans several targets concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each scan.
	pipelineFactory func() *Pipeline

	// languageFor picks the language of a target.
	languageFor func(target string) model.Language

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLanguage sets the function choosing the language of each target.
// The default is model.DefaultLanguage for every target.
func WithLanguage(languageFor func(target string) model.Language) BatchOption {
	return func(b *BatchProcessor) {
		if languageFor != nil {
			b.languageFor = languageFor
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each scan so that pipeline
// state never leaks between scans.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		languageFor:     func(string) model.Language { return model.DefaultLanguage },
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans every target and returns one Scan per target in input
// order. A failed scan does not stop the others; its error is recorded in
// the Scan. The returned error is non-nil only when ctx was cancelled, in
// which case scans that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*Scan, error) {
	bp.logger.Info("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]*Scan, len(targets))

	err := bp.run(ctx, targets, func(scan *Scan, index int) {
		results[index] = scan
	})

	bp.logger.Info("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback scans every target and calls callback for each
// completed scan, from the goroutine that ran it. This is useful for
// streaming results.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(scan *Scan, index int),
) error {
	return bp.run(ctx, targets, callback)
}

// run executes the pipeline for every target with bounded concurrency.
func (bp *BatchProcessor) run(ctx context.Context, targets []string, done func(scan *Scan, index int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bp.logger.Info("scanning target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			scan := NewScan(target, bp.languageFor(target))
			if err := bp.pipelineFactory().Execute(gctx, scan); err != nil {
				bp.logger.Warn("scan failed",
					"target", target,
					"error", err,
				)
			} else {
				bp.logger.Info("scan completed",
					"target", target,
					"issues", scan.Report.IssueCount(),
				)
			}

			done(scan, i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
