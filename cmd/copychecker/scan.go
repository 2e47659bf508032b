package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nao1215/copychecker/internal/config"
	"github.com/nao1215/copychecker/internal/database"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/pipeline"
	"github.com/nao1215/copychecker/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url|file...]",
		Short: "Proofread web pages or local HTML files",
		Long: `Scan loads each page, extracts its visible and hidden text and reports:
- Double spaces between words
- Spelling and grammar issues found by a LanguageTool-compatible service

Same-origin frames and declarative shadow roots are scanned too. Issues
found outside the main document are marked with where they were found.

Examples:
  # Scan a single page
  copychecker scan https://www.example.com/

  # Scan a local file in US English
  copychecker scan -l US ./public/index.html

  # Scan several pages, two at a time
  copychecker scan -b 2 https://example.com/ https://example.com/about

  # Write a Markdown report to a file
  copychecker scan --markdown -o report.md https://www.example.com/

  # Use a self-hosted LanguageTool server without a rate limit
  COPYCHECKER_REQUESTS_PER_MINUTE=0 copychecker scan \
    --api-url http://localhost:8010/v2/check https://www.example.com/

Configuration file (.copychecker) example:
  language: UK
  sites:
    www.example.com:
      cookie: "session_id=abc123"
      language: US`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Checking flags
	cmd.Flags().StringP("language", "l", string(model.DefaultLanguage),
		"English variant to check against (UK or US)")
	cmd.Flags().String("api-url", "",
		"LanguageTool-compatible check endpoint (default: public LanguageTool API)")
	cmd.Flags().Duration("check-timeout", 0,
		"Timeout of each grammar check (default 15s)")
	cmd.Flags().Int("concurrency", 0,
		"Number of text segments checked at once per page (default 1)")

	// Fetch flags
	cmd.Flags().DurationP("timeout", "t", 0,
		"Timeout of each page or frame fetch (default 30s)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for page fetches (e.g., 127.0.0.1:1080)")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", 0,
		"Number of pages scanned at once (default 4)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .copychecker in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --tsv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --tsv)")
	cmd.Flags().Bool("tsv", false,
		"Output tab-separated report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not store the reports in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown", "tsv")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("%w (specify one or more URLs or files as arguments)", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cmd, cfg, logger)
}

// buildConfig loads the configuration file and environment, then applies
// the flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flags.Changed("language") {
		value, err := flags.GetString("language")
		if err != nil {
			return nil, err
		}
		lang, err := model.ParseLanguage(value)
		if err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		cfg.Language = lang
	}

	if flags.Changed("api-url") {
		if cfg.APIURL, err = flags.GetString("api-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("check-timeout") {
		if cfg.CheckTimeout, err = flags.GetDuration("check-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.TSVReport, err = flags.GetBool("tsv"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if noSave {
		cfg.SaveToDB = false
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}

	cfg.Targets = args

	return cfg, nil
}

// runScan scans every target of cfg and writes one report per page.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", len(cfg.Targets),
		"language", cfg.Language,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var saver pipeline.ReportSaver
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		saver = db
		logger.Info("database opened", "path", db.Path())
	}

	eng, err := newEngine(cfg, logger, metrics.New(prometheus.NewRegistry()), true)
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput()
	writer := newReportWriter(cfg, output)

	status := cmd.ErrOrStderr()
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(eng.loader, eng.analyzer, saver,
				pipeline.WithLogger(logger),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithLanguage(cfg.LanguageFor),
	)

	fmt.Fprintf(status, "Scanning %d page(s) in %s English...\n", len(cfg.Targets), cfg.Language)
	startTime := time.Now()

	var (
		mu     sync.Mutex
		failed int
	)
	err = bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(scan *pipeline.Scan, index int) {
		mu.Lock()
		defer mu.Unlock()

		if scan.Failed() {
			failed++
			fmt.Fprintf(status, "[%d/%d] Scan error for %s: %v\n", index+1, len(cfg.Targets), scan.Target, scan.Error)
			return
		}

		fmt.Fprintf(status, "[%d/%d] %s: %d issue(s)\n",
			index+1, len(cfg.Targets), scan.Target, scan.Report.IssueCount())
		if _, err := writer.Write(scan.Report); err != nil {
			logger.Error("report failed", "target", scan.Target, "error", err)
		}
	})

	fmt.Fprintf(status, "Scan completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scans failed", failed, len(cfg.Targets))
	}
	return nil
}

// openOutput returns the report destination: the file at path, created
// with its directories, or fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// 0600: reports quote page text that may not be public
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter returns the writer of the format selected in cfg.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.TSVReport:
		return report.NewTSVWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
