package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public LanguageTool check endpoint.
const DefaultEndpoint = "https://api.languagetool.org/v2/check"

// DefaultRequestsPerMinute is the request allowance of the public endpoint.
const DefaultRequestsPerMinute = 20

// defaultHTTPTimeout bounds a single HTTP exchange when the caller's context
// has no earlier deadline.
const defaultHTTPTimeout = 30 * time.Second

// Service checks a text and returns the raw matches.
type Service interface {
	Check(ctx context.Context, text, locale string) ([]Match, error)
}

// Client is a LanguageTool compatible HTTP client. It never retries; a failed
// call is reported to the caller. Client is safe for concurrent use.
type Client struct {
	endpoint  string
	http      *resty.Client
	limiter   *rate.Limiter
	username  string
	apiKey    string
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the timeout of a single HTTP exchange.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit limits the client to perMinute requests per minute, with a
// burst of the same size. Zero or a negative value disables limiting.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

// WithCredentials sets the username and API key of a premium account.
func WithCredentials(username, apiKey string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.apiKey = apiKey
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the given check endpoint. An empty endpoint
// selects DefaultEndpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), DefaultRequestsPerMinute),
		userAgent: "copychecker",
		timeout:   defaultHTTPTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent)

	return c
}

// Endpoint returns the check endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Check sends text for checking in the given locale, e.g. "en-GB".
func (c *Client) Check(ctx context.Context, text, locale string) ([]Match, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	form := map[string]string{
		"text":        text,
		"language":    locale,
		"enabledOnly": "false",
	}
	if c.username != "" && c.apiKey != "" {
		form["username"] = c.username
		form["apiKey"] = c.apiKey
	}

	c.logger.Debug("sending grammar check", "endpoint", c.endpoint, "language", locale, "text", text)

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call grammar service: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status())
	}

	var body checkResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	c.logger.Debug("grammar check done", "language", locale, "matches", len(body.Matches))
	return body.Matches, nil
}
