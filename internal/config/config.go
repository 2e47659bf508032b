package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/copychecker/internal/grammar"
	"github.com/nao1215/copychecker/internal/model"
	"github.com/nao1215/copychecker/internal/page"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "copychecker"

	// DefaultConcurrency checks one segment at a time, which keeps the
	// request rate to the grammar service predictable.
	DefaultConcurrency = 1

	// DefaultBatchSize is the number of pages scanned at once.
	DefaultBatchSize = 4

	// DefaultServeAddr is the listen address of the serve command.
	DefaultServeAddr = "127.0.0.1:8765"
)

// Config holds all configuration options for CopyChecker.
// It is populated from defaults, the config file, the environment and CLI
// flags, and passed through the application rather than kept globally.
type Config struct {
	// Language is the English variant used for grammar checking.
	Language model.Language

	// APIURL is the LanguageTool-compatible check endpoint.
	APIURL string

	// APIUsername and APIKey authenticate against a premium endpoint.
	// Both are optional.
	APIUsername string
	APIKey      string

	// RequestsPerMinute limits calls to the grammar service. Zero disables
	// the limit, which only makes sense for a self-hosted server.
	RequestsPerMinute int

	// Timeout is the timeout of each page or frame fetch.
	Timeout time.Duration

	// CheckTimeout bounds each grammar check. A check that times out
	// yields no issues for its segment.
	CheckTimeout time.Duration

	// Concurrency is the number of segments checked at once.
	Concurrency int

	// BatchSize is the number of pages scanned at once.
	BatchSize int

	// MaxFrameDepth is how deep nested same-origin frames are followed.
	MaxFrameDepth int

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") for page fetches.
	ProxyAddress string

	// UserAgent is sent with page fetches.
	UserAgent string

	// MaxBodySize is the maximum page size in bytes. Zero means the default.
	MaxBodySize int64

	// RetryMax is the number of retries of a failed page fetch.
	RetryMax int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	SiteConfigs *File

	// JSONReport, MarkdownReport and TSVReport select the report format.
	// At most one may be set; the default is plain text.
	JSONReport     bool
	MarkdownReport bool
	TSVReport      bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of URLs or file paths to scan.
	Targets []string

	// DBDir is the directory of the report history database.
	// Defaults to the XDG data directory (~/.local/share/copychecker on Linux).
	DBDir string

	// SaveToDB indicates whether scan reports are stored in the history.
	SaveToDB bool

	// ServeAddr is the listen address of the serve command.
	ServeAddr string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Language:          model.DefaultLanguage,
		APIURL:            grammar.DefaultEndpoint,
		RequestsPerMinute: grammar.DefaultRequestsPerMinute,
		Timeout:           page.DefaultTimeout,
		CheckTimeout:      grammar.DefaultCheckTimeout,
		Concurrency:       DefaultConcurrency,
		BatchSize:         DefaultBatchSize,
		MaxFrameDepth:     page.DefaultMaxFrameDepth,
		UserAgent:         page.DefaultUserAgent,
		MaxBodySize:       page.DefaultMaxBodySize,
		RetryMax:          page.DefaultRetryMax,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
		ServeAddr:         DefaultServeAddr,
	}
}

// XDGDataDir returns the XDG data directory for CopyChecker.
// On Linux: ~/.local/share/copychecker
// On macOS: ~/Library/Application Support/copychecker
// On Windows: %LOCALAPPDATA%\copychecker
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for CopyChecker.
// On Linux: ~/.config/copychecker
// On macOS: ~/Library/Application Support/copychecker
// On Windows: %APPDATA%\copychecker
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
// Targets are not checked; scanning commands call ValidateTargets.
func (c *Config) Validate() error {
	if _, err := model.ParseLanguage(string(c.Language)); err != nil {
		return ErrInvalidLanguage
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAPIURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CheckTimeout <= 0 {
		return ErrInvalidCheckTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.RequestsPerMinute < 0 {
		return ErrInvalidRequestsPerMinute
	}

	if c.MaxFrameDepth < 0 {
		return ErrInvalidFrameDepth
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.TSVReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}

// ValidateTargets checks that there is something to scan.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return nil
}
