package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nao1215/copychecker/internal/config"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/rpc"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve page analysis to a host application over HTTP",
		Long: `Serve starts an HTTP server that analyses pages on request.

A host application posts JSON messages to /message:
  {"action": "ping"}
  {"action": "analyzePage", "language": "US", "url": "https://www.example.com/"}
  {"action": "analyzePage", "html": "<p>Some  text</p>"}

Prometheus metrics are served on /metrics.

Examples:
  # Listen on the default address
  copychecker serve

  # Listen on all interfaces
  copychecker serve --addr :8765`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServeAddr, "Listen address")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .copychecker in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("addr") {
		if cfg.ServeAddr, err = cmd.Flags().GetString("addr"); err != nil {
			return err
		}
	}
	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	eng, err := newEngine(cfg, logger, m, false)
	if err != nil {
		return err
	}

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	server := rpc.NewServer(eng.loader, eng.analyzer,
		rpc.WithLanguage(cfg.Language),
		rpc.WithLogger(logger),
		rpc.WithMetrics(m, reg),
	)
	rpc.MarkReady()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s (press Ctrl+C to stop)\n", cfg.ServeAddr)
	return server.ListenAndServe(ctx, cfg.ServeAddr)
}
