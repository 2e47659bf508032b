package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/copychecker/internal/dom"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/page"
)

const (
	// DefaultRequestTimeout bounds one analyzePage request.
	DefaultRequestTimeout = 5 * time.Minute

	// maxRequestSize limits the size of a request envelope.
	maxRequestSize = page.DefaultMaxBodySize + 4096

	shutdownTimeout = 10 * time.Second
)

// processReady is set once at start and never reset.
var processReady atomic.Bool

// MarkReady marks the process as initialized. Later calls have no effect.
func MarkReady() {
	processReady.Store(true)
}

// Ready reports whether MarkReady has been called.
func Ready() bool {
	return processReady.Load()
}

// PageLoader loads pages by target or from an HTML string.
type PageLoader interface {
	Load(ctx context.Context, target string) (*page.Page, error)
	LoadString(ctx context.Context, src string, base *url.URL) (*page.Page, error)
}

// PageAnalyzer analyses a loaded document.
type PageAnalyzer interface {
	Analyze(ctx context.Context, doc *dom.Document, lang model.Language) (*model.AnalysisReport, error)
}

// Server handles host messages.
type Server struct {
	loader         PageLoader
	analyzer       PageAnalyzer
	language       model.Language
	requestTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	ready          *atomic.Bool
	router         *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLanguage sets the language used when a request names none.
func WithLanguage(lang model.Language) Option {
	return func(s *Server) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithRequestTimeout bounds the handling of one analyzePage request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records handled messages in m and serves gatherer on /metrics.
// A nil gatherer keeps the default Prometheus registry.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		if gatherer != nil {
			s.gatherer = gatherer
		}
	}
}

// NewServer creates a Server and registers its routes.
func NewServer(loader PageLoader, analyzer PageAnalyzer, opts ...Option) *Server {
	s := &Server{
		loader:         loader,
		analyzer:       analyzer,
		language:       model.DefaultLanguage,
		requestTimeout: DefaultRequestTimeout,
		logger:         slog.Default(),
		gatherer:       prometheus.DefaultGatherer,
		ready:          &processReady,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())
	router.POST("/message", s.handleMessage)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.router = router

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("message server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("message server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down message server: %w", err)
	}
	return nil
}

// logRequests logs each request at debug level.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// handleMessage dispatches one envelope.
func (s *Server) handleMessage(c *gin.Context) {
	if c.ContentType() != gin.MIMEJSON {
		s.reply(c, "invalid", http.StatusUnsupportedMediaType, errorResponse(ErrUnsupportedContentType))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.reply(c, "invalid", http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request: %w", err)))
		return
	}

	switch req.Action {
	case ActionPing:
		s.ping(c)
	case ActionAnalyzePage:
		s.analyzePage(c, req)
	default:
		s.reply(c, "unknown", http.StatusBadRequest,
			errorResponse(fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)))
	}
}

func (s *Server) ping(c *gin.Context) {
	if !s.ready.Load() {
		s.reply(c, ActionPing, http.StatusServiceUnavailable, errorResponse(ErrNotInitialized))
		return
	}
	s.reply(c, ActionPing, http.StatusOK, Response{Status: "ok"})
}

func (s *Server) analyzePage(c *gin.Context, req Request) {
	lang := s.language
	if req.Language != "" {
		parsed, err := model.ParseLanguage(req.Language)
		if err != nil {
			s.reply(c, ActionAnalyzePage, http.StatusBadRequest, errorResponse(err))
			return
		}
		lang = parsed
	}

	switch {
	case req.URL == "" && req.HTML == "":
		s.reply(c, ActionAnalyzePage, http.StatusBadRequest, errorResponse(ErrNoSource))
		return
	case req.URL != "" && req.HTML != "":
		s.reply(c, ActionAnalyzePage, http.StatusBadRequest, errorResponse(ErrBothSources))
		return
	case req.URL != "" && !remoteURL(req.URL):
		s.reply(c, ActionAnalyzePage, http.StatusBadRequest,
			errorResponse(fmt.Errorf("%w: %q", ErrUnsupportedURL, req.URL)))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	var (
		p   *page.Page
		err error
	)
	if req.URL != "" {
		p, err = s.loader.Load(ctx, req.URL)
	} else {
		p, err = s.loader.LoadString(ctx, req.HTML, nil)
	}
	if err != nil {
		s.logger.Warn("failed to load page", "url", req.URL, "error", err)
		s.reply(c, ActionAnalyzePage, statusFor(err, http.StatusUnprocessableEntity), errorResponse(err))
		return
	}

	report, err := s.analyzer.Analyze(ctx, p.Document, lang)
	if err != nil {
		s.logger.Warn("failed to analyse page", "url", p.URL, "error", err)
		s.reply(c, ActionAnalyzePage, statusFor(err, http.StatusInternalServerError), errorResponse(err))
		return
	}

	s.metrics.RecordMessage(ActionAnalyzePage, "ok")
	c.JSON(http.StatusOK, analyzeResponse{Issues: report.Groups})
}

// reply writes resp and records the message outcome.
func (s *Server) reply(c *gin.Context, action string, status int, resp Response) {
	outcome := "ok"
	if resp.Error != "" {
		outcome = "error"
	}
	s.metrics.RecordMessage(action, outcome)
	c.JSON(status, resp)
}

// remoteURL reports whether target is an absolute http or https URL.
// Plain paths would otherwise be read from the local disk.
func remoteURL(target string) bool {
	u, err := page.ParseTarget(target)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// statusFor maps deadline errors to 504 and everything else to fallback.
func statusFor(err error, fallback int) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return fallback
}
