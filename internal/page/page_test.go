package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/copychecker/internal/dom"
)

// newTestLoader returns a Loader with HTTP and file fetchers and no retries.
func newTestLoader(t *testing.T, opts ...LoaderOption) *Loader {
	t.Helper()
	hf, err := NewHTTPFetcher(WithRetryMax(0))
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return NewLoader(SchemeFetcher{
		"http":  hf,
		"https": hf,
		"file":  NewFileFetcher(0),
	}, opts...)
}

// segmentTexts extracts the document and returns the segment texts.
func segmentTexts(doc *dom.Document) []string {
	var out []string
	for _, s := range dom.Extract(doc) {
		out = append(out, s.Text)
	}
	return out
}

// TestLoader_LoadHTTP tests loading a page with frames over HTTP.
func TestLoader_LoadHTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("expected custom header to be sent")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title> Home </title></head><body>
			<p>main text</p>
			<iframe src="/frame"></iframe>
			<iframe src="https://elsewhere.example/frame"></iframe>
			<iframe srcdoc="<p>inline text</p>"></iframe>
			<iframe src="/missing"></iframe>
		</body></html>`))
	})
	mux.HandleFunc("/frame", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>frame text</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hf, err := NewHTTPFetcher(WithRetryMax(0), WithHeaders(func(*url.URL) http.Header {
		return http.Header{"X-Test": []string{"yes"}}
	}))
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	loader := NewLoader(SchemeFetcher{"http": hf})

	p, err := loader.Load(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Home" {
		t.Errorf("expected title 'Home', got %q", p.Title)
	}
	if len(p.Document.Frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(p.Document.Frames))
	}

	frames := p.Document.Frames
	if !frames[0].Accessible() {
		t.Errorf("expected same-origin frame to load, got error %v", frames[0].Err)
	}
	if !errors.Is(frames[1].Err, ErrCrossOrigin) || frames[1].Accessible() {
		t.Errorf("expected cross-origin frame to be rejected, got %v", frames[1].Err)
	}
	if frames[2].Source != "about:srcdoc" || !frames[2].Accessible() {
		t.Errorf("expected srcdoc frame to be parsed, got %+v", frames[2])
	}
	if frames[3].Err == nil || frames[3].Accessible() {
		t.Error("expected missing frame to carry an error")
	}

	got := strings.Join(segmentTexts(p.Document), "|")
	if got != "main text|frame text|inline text" {
		t.Errorf("unexpected segments %q", got)
	}
}

// TestLoader_Errors tests pages that cannot be loaded.
func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/image", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"))
	})
	mux.HandleFunc("/binary", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	loader := newTestLoader(t)

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), srv.URL+"/nothing")
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("served as image", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), srv.URL+"/image")
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("binary served as html", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), srv.URL+"/binary")
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})
}

// TestLoader_Charset tests decoding of a Latin-1 page.
func TestLoader_Charset(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte("<html><body><p>caf\xe9 cr\xe8me</p></body></html>"))
	}))
	t.Cleanup(srv.Close)

	p, err := newTestLoader(t).Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := segmentTexts(p.Document); len(got) != 1 || got[0] != "café crème" {
		t.Errorf("expected decoded text, got %q", got)
	}
}

// TestLoader_LoadFile tests loading a local file with a same-directory frame.
func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, "index.html")
	if err := os.WriteFile(index, []byte(`<html><body><p>file text</p><iframe src="inner.html"></iframe></body></html>`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "inner.html"), []byte(`<p>inner text</p>`), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := newTestLoader(t).Load(context.Background(), index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p.URL, "file://") {
		t.Errorf("expected a file URL, got %q", p.URL)
	}
	if got := strings.Join(segmentTexts(p.Document), "|"); got != "file text|inner text" {
		t.Errorf("unexpected segments %q", got)
	}
}

// TestLoader_LoadStringWithoutBase tests that a page without a base cannot
// pull local files in through its frames.
func TestLoader_LoadStringWithoutBase(t *testing.T) {
	t.Parallel()

	secret := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(secret, []byte("db_password  hunter2"), 0o600); err != nil {
		t.Fatal(err)
	}
	fileSrc := (&url.URL{Scheme: "file", Path: filepath.ToSlash(secret)}).String()
	src := `<p>top</p><iframe src="` + filepath.ToSlash(secret) + `"></iframe><iframe src="` + fileSrc + `"></iframe>`

	p, err := newTestLoader(t).LoadString(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.URL != "about:blank" {
		t.Errorf("expected about:blank, got %q", p.URL)
	}
	if got := strings.Join(segmentTexts(p.Document), "|"); got != "top" {
		t.Errorf("unexpected segments %q", got)
	}
	for i, frame := range p.Document.Frames {
		if !errors.Is(frame.Err, ErrCrossOrigin) {
			t.Errorf("frame %d: expected ErrCrossOrigin, got %v", i, frame.Err)
		}
	}
}

// TestLoader_FrameDepth tests the nesting limit.
func TestLoader_FrameDepth(t *testing.T) {
	t.Parallel()

	src := `<p>top</p><iframe srcdoc="<p>one</p><iframe srcdoc='<p>two</p>'></iframe>"></iframe>`

	p, err := newTestLoader(t, WithMaxFrameDepth(1)).LoadString(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(segmentTexts(p.Document), "|"); got != "top|one" {
		t.Errorf("unexpected segments %q", got)
	}

	inner := p.Document.Frames[0].Document.Frames[0]
	if !errors.Is(inner.Err, ErrFrameDepth) {
		t.Errorf("expected ErrFrameDepth, got %v", inner.Err)
	}
}

// TestParseTarget tests target normalization.
func TestParseTarget(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		scheme  string
		wantErr bool
	}{
		{"https://example.com/page", "https", false},
		{"http://example.com", "http", false},
		{"page.html", "file", false},
		{"file:///tmp/page.html", "file", false},
		{"ftp://example.com/page", "", true},
		{"https://", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			u, err := ParseTarget(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected an error, got %v", u)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Scheme != tc.scheme {
				t.Errorf("expected scheme %q, got %q", tc.scheme, u.Scheme)
			}
		})
	}
}

// TestNewHTTPFetcher_Proxy tests proxy address validation.
func TestNewHTTPFetcher_Proxy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:9050", false},
		{"localhost:1080", false},
		{"127.0.0.1", true},
		{":9050", true},
		{"127.0.0.1:0", true},
		{"127.0.0.1:70000", true},
	}

	for _, tc := range testCases {
		t.Run(tc.addr, func(t *testing.T) {
			t.Parallel()
			_, err := NewHTTPFetcher(WithProxy(tc.addr))
			if tc.wantErr && !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
