package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/copychecker/internal/dom"
)

// DefaultMaxFrameDepth is how deep nested frames are resolved.
const DefaultMaxFrameDepth = 3

// srcdocSource is recorded as the Source of inline frames.
const srcdocSource = "about:srcdoc"

// blankSource is recorded as the Source of empty frames.
const blankSource = "about:blank"

// Page is a loaded document ready for analysis.
type Page struct {
	// URL identifies the page: the final http(s) URL or a file URL.
	URL string

	// Title is the trimmed <title> text, possibly empty.
	Title string

	// Charset is the character set the body was decoded from.
	Charset string

	// Document is the parsed page with its frames resolved.
	Document *dom.Document
}

// Loader loads pages and their frames.
type Loader struct {
	fetcher       Fetcher
	maxFrameDepth int
	logger        *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxFrameDepth limits frame nesting. Zero disables frame resolution.
func WithMaxFrameDepth(depth int) LoaderOption {
	return func(l *Loader) {
		if depth >= 0 {
			l.maxFrameDepth = depth
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader using fetcher for pages and same-origin frames.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:       fetcher,
		maxFrameDepth: DefaultMaxFrameDepth,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseTarget turns a command line target into a URL. http and https URLs
// are kept; file URLs and plain paths become absolute file URLs.
func ParseTarget(target string) (*url.URL, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", ErrUnsupportedScheme)
	}

	u, err := url.Parse(target)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			if u.Host == "" {
				return nil, fmt.Errorf("invalid URL %q: missing host", target)
			}
			return u, nil
		case "file":
			return fileURL(u.Path)
		}
	}

	// Windows drive letters parse as a one-letter scheme.
	if err == nil && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return fileURL(target)
}

// fileURL builds an absolute file URL for path.
func fileURL(path string) (*url.URL, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// Load fetches and parses the page at target.
func (l *Loader) Load(ctx context.Context, target string) (*Page, error) {
	u, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	resp, err := l.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return l.build(ctx, resp.URL, resp.Body, resp.ContentType)
}

// LoadReader parses a page read from r. Relative frame
// sources are resolved against base. A nil base loads the page as
// about:blank, which keeps every fetched frame cross-origin.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, base *url.URL) (*Page, error) {
	body, err := io.ReadAll(io.LimitReader(r, DefaultMaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if base == nil {
		base = &url.URL{Scheme: "about", Opaque: "blank"}
	}
	return l.build(ctx, base, body, "")
}

// LoadString parses an HTML string, resolving frames against base.
func (l *Loader) LoadString(ctx context.Context, src string, base *url.URL) (*Page, error) {
	return l.LoadReader(ctx, strings.NewReader(src), base)
}

// build decodes and parses a page body.
func (l *Loader) build(ctx context.Context, u *url.URL, body []byte, contentType string) (*Page, error) {
	if err := checkText(body, contentType); err != nil {
		return nil, err
	}

	reader, charsetName := decodeBody(body, contentType)
	doc, title, err := l.parse(ctx, u, reader, 0)
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:      u.String(),
		Title:    title,
		Charset:  charsetName,
		Document: doc,
	}, nil
}

// parse parses HTML and resolves the frames of the resulting tree.
func (l *Loader) parse(ctx context.Context, u *url.URL, r io.Reader, depth int) (*dom.Document, string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	sel := goquery.NewDocumentFromNode(root)
	title := strings.TrimSpace(sel.Find("head > title").First().Text())

	base := u
	if href, ok := sel.Find("head > base[href]").First().Attr("href"); ok {
		if b, err := u.Parse(strings.TrimSpace(href)); err == nil {
			base = b
		}
	}

	doc := &dom.Document{URL: u, Root: root}
	sel.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		doc.Frames = append(doc.Frames, l.resolveFrame(ctx, u, base, s, depth+1))
	})

	return doc, title, nil
}

// resolveFrame builds the dom.Frame of one <iframe>. Errors are stored on
// the frame.
func (l *Loader) resolveFrame(ctx context.Context, parent, base *url.URL, s *goquery.Selection, depth int) *dom.Frame {
	frame := &dom.Frame{Element: s.Get(0)}

	if depth > l.maxFrameDepth {
		frame.Err = ErrFrameDepth
		return frame
	}

	if srcdoc, ok := s.Attr("srcdoc"); ok {
		frame.Source = srcdocSource
		frame.Document, _, frame.Err = l.parse(ctx, parent, strings.NewReader(srcdoc), depth)
		return frame
	}

	src := strings.TrimSpace(s.AttrOr("src", ""))
	if src == "" || src == blankSource {
		frame.Source = blankSource
		frame.Document, _, frame.Err = l.parse(ctx, parent, strings.NewReader(""), depth)
		return frame
	}

	target, err := base.Parse(src)
	if err != nil {
		frame.Source = src
		frame.Err = fmt.Errorf("invalid frame source: %w", err)
		return frame
	}
	frame.Source = target.String()

	if !sameOrigin(parent, target) {
		frame.Err = ErrCrossOrigin
		return frame
	}

	resp, err := l.fetcher.Fetch(ctx, target)
	if err != nil {
		frame.Err = err
		l.logger.Debug("failed to load frame", "source", frame.Source, "error", err)
		return frame
	}
	if err := checkText(resp.Body, resp.ContentType); err != nil {
		frame.Err = err
		return frame
	}

	reader, _ := decodeBody(resp.Body, resp.ContentType)
	frame.Document, _, frame.Err = l.parse(ctx, resp.URL, reader, depth)
	return frame
}

// sameOrigin reports whether b has the same scheme and host as a.
// Only http, https and file URLs can share an origin.
func sameOrigin(a, b *url.URL) bool {
	switch b.Scheme {
	case "http", "https", "file":
	default:
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
