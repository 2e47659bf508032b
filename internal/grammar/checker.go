package grammar

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/copychecker/internal/dom"
	"github.com/nao1215/copychecker/internal/metrics"
	"github.com/nao1215/copychecker/internal/model"
)

// DefaultCheckTimeout bounds one remote check including rate limiting.
const DefaultCheckTimeout = 15 * time.Second

// Checker runs remote grammar checks for text segments.
// Checker is safe for concurrent use if its Service is.
type Checker struct {
	service Service
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckTimeout sets the timeout of a single check.
func WithCheckTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failed checks.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records every remote call in m.
func WithMetrics(m *metrics.Metrics) CheckerOption {
	return func(c *Checker) {
		c.metrics = m
	}
}

// NewChecker creates a Checker on top of service.
func NewChecker(service Service, opts ...CheckerOption) *Checker {
	c := &Checker{
		service: service,
		timeout: DefaultCheckTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the spelling and grammar issues of seg, anchored in
// seg.Text. When the segment has a block context the whole block text is
// sent so the service sees complete sentences; matches that fall outside the
// segment's own span belong to a neighbouring segment and are dropped.
//
// Check never fails: any error of the service, including the timeout, is
// logged and yields no issues.
func (c *Checker) Check(ctx context.Context, seg dom.Segment, lang model.Language) []model.Issue {
	text, base := seg.Text, 0
	if seg.Context != nil && seg.Context.FullText != "" {
		text, base = seg.Context.FullText, seg.Context.Offset
	}
	segLen := len([]rune(seg.Text))

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	matches, err := c.service.Check(callCtx, text, lang.Code())
	c.metrics.RecordRemoteCall(time.Since(start), err)
	if err != nil {
		c.logger.Warn("grammar check failed, continuing without remote issues",
			"locator", seg.Locator,
			"error", err,
		)
		return nil
	}

	runes := []rune(text)
	index := newUnitIndex(text)

	var issues []model.Issue
	for _, m := range matches {
		if isWhitespaceMatch(m) {
			continue
		}

		from, ok := index.runeOffset(m.Offset)
		if !ok {
			continue
		}
		to, ok := index.runeOffset(m.Offset + m.Length)
		if !ok || to < from {
			continue
		}

		if isSentenceStartMatch(m) && !startsSentence(runes, from) {
			continue
		}

		local := from - base
		if local < 0 || local+(to-from) > segLen {
			continue
		}

		matched, ok := m.MatchedText()
		if !ok {
			matched = string(runes[from:to])
		}

		issues = append(issues, model.Issue{
			Kind:       model.KindSpelling,
			Text:       matched,
			Suggestion: m.Suggestion(),
			Offset:     local,
			Length:     to - from,
			Message:    m.Message,
			Rule:       m.Rule.Description,
		})
	}
	return issues
}
