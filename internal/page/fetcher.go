package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/proxy"
)

// Default fetch settings.
const (
	// DefaultTimeout bounds one HTTP request, redirects included.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the bytes read from a response or file.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultRetryMax is the number of retries of a failed page request.
	DefaultRetryMax = 2

	// DefaultUserAgent identifies copychecker in HTTP requests.
	DefaultUserAgent = "copychecker/1.0 (+https://github.com/nao1215/copychecker)"
)

// Response is a fetched document body.
type Response struct {
	// URL is the final URL after redirects.
	URL *url.URL

	// ContentType is the Content-Type header, empty for files.
	ContentType string

	// Body is the raw body, at most the configured size.
	Body []byte
}

// Fetcher retrieves the body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*Response, error)
}

// HeaderProvider returns extra request headers for a URL, e.g. a cookie
// configured for the site.
type HeaderProvider func(u *url.URL) http.Header

// HTTPFetcher fetches http and https URLs.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	headers     HeaderProvider
}

// fetcherConfig collects HTTPFetcher options before the client is built.
type fetcherConfig struct {
	timeout     time.Duration
	retryMax    int
	proxyAddr   string
	userAgent   string
	maxBodySize int64
	headers     HeaderProvider
	logger      *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*fetcherConfig)

// WithTimeout sets the timeout of one request.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) FetcherOption {
	return func(c *fetcherConfig) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at addr ("host:port").
// An empty addr connects directly.
func WithProxy(addr string) FetcherOption {
	return func(c *fetcherConfig) {
		c.proxyAddr = addr
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(c *fetcherConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize limits the bytes read from a response.
func WithMaxBodySize(n int64) FetcherOption {
	return func(c *fetcherConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithHeaders adds per-URL request headers.
func WithHeaders(p HeaderProvider) FetcherOption {
	return func(c *fetcherConfig) {
		c.headers = p
	}
}

// WithFetchLogger sets the logger used for retry messages.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(c *fetcherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher. It fails only for an invalid
// proxy address.
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	cfg := &fetcherConfig{
		timeout:     DefaultTimeout,
		retryMax:    DefaultRetryMax,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rc := retryablehttp.NewClient()
	transport := rc.HTTPClient.Transport
	if cfg.proxyAddr != "" {
		t, err := socks5Transport(cfg.proxyAddr)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	rc.RetryMax = cfg.retryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = cfg.logger
	rc.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPFetcher{
		client:      rc.StandardClient(),
		userAgent:   cfg.userAgent,
		maxBodySize: cfg.maxBodySize,
		headers:     cfg.headers,
	}, nil
}

// socks5Transport builds a transport dialing through a SOCKS5 proxy.
func socks5Transport(addr string) (*http.Transport, error) {
	if !isValidProxyAddress(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, addr)
	}
	dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, address)
			}
			return dialer.Dial(network, address)
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}, nil
}

// isValidProxyAddress checks for a "host:port" address with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// Fetch performs a GET request for u.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if f.headers != nil {
		for k, vs := range f.headers(u) {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, u, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}

	return &Response{
		URL:         resp.Request.URL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// FileFetcher reads file URLs from the local file system.
type FileFetcher struct {
	maxBodySize int64
}

// NewFileFetcher creates a FileFetcher reading at most maxBodySize bytes.
// A non-positive size selects DefaultMaxBodySize.
func NewFileFetcher(maxBodySize int64) *FileFetcher {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &FileFetcher{maxBodySize: maxBodySize}
}

// Fetch reads the file named by u.
func (f *FileFetcher) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	if u.Scheme != "file" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(u.Path) //nolint:gosec // User-provided target path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", u.Path, err)
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u.Path, err)
	}
	return &Response{URL: u, Body: body}, nil
}

// SchemeFetcher dispatches to a Fetcher by URL scheme.
type SchemeFetcher map[string]Fetcher

// Fetch calls the fetcher registered for u.Scheme.
func (s SchemeFetcher) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	f, ok := s[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return f.Fetch(ctx, u)
}
