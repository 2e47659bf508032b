package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/copychecker/internal/analysis"
	"github.com/nao1215/copychecker/internal/config"
	"github.com/nao1215/copychecker/internal/detect"
	"github.com/nao1215/copychecker/internal/grammar"
	cclog "github.com/nao1215/copychecker/internal/log"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/page"
)

// engine is the page loader and analyzer shared by scan and serve.
type engine struct {
	loader   *page.Loader
	analyzer *analysis.Analyzer
}

// newEngine wires the fetchers, the grammar checker and the analyzer
// according to cfg. Local files are readable only when localFiles is set.
func newEngine(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, localFiles bool) (*engine, error) {
	httpFetcher, err := page.NewHTTPFetcher(
		page.WithTimeout(cfg.Timeout),
		page.WithProxy(cfg.ProxyAddress),
		page.WithUserAgent(cfg.UserAgent),
		page.WithMaxBodySize(cfg.MaxBodySize),
		page.WithRetryMax(cfg.RetryMax),
		page.WithHeaders(cfg.SiteHeaders),
		page.WithFetchLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create page fetcher: %w", err)
	}

	fetchers := page.SchemeFetcher{
		"http":  httpFetcher,
		"https": httpFetcher,
	}
	if localFiles {
		fetchers["file"] = page.NewFileFetcher(cfg.MaxBodySize)
	}
	loader := page.NewLoader(fetchers,
		page.WithMaxFrameDepth(cfg.MaxFrameDepth),
		page.WithLogger(logger),
	)

	client := grammar.NewClient(cfg.APIURL,
		grammar.WithRateLimit(cfg.RequestsPerMinute),
		grammar.WithCredentials(cfg.APIUsername, cfg.APIKey),
		grammar.WithUserAgent(cfg.UserAgent),
		grammar.WithClientLogger(logger),
	)
	checker := grammar.NewChecker(client,
		grammar.WithCheckTimeout(cfg.CheckTimeout),
		grammar.WithLogger(logger),
		grammar.WithMetrics(m),
	)

	analyzer := analysis.NewAnalyzer(detect.NewDetector(), checker,
		analysis.WithConcurrency(cfg.Concurrency),
		analysis.WithLogger(logger),
		analysis.WithMetrics(m),
	)

	return &engine{loader: loader, analyzer: analyzer}, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure logger and makes it the default.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := cclog.NewSecureLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// commandContext returns the context of cmd, or a background context when
// the command was run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
