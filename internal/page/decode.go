package page

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// fallbackCharset is what charset.DetermineEncoding settles on when it found
// no declaration and the content is not valid UTF-8.
const fallbackCharset = "windows-1252"

// minDetectConfidence is the chardet confidence required to override the fallback.
const minDetectConfidence = 50

// checkText rejects bodies that are not text. The Content-Type header, when
// present, must be a text or XHTML type; the sniffed type must descend from
// text/plain.
func checkText(body []byte, contentType string) error {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && !strings.HasPrefix(mediaType, "text/") && mediaType != "application/xhtml+xml" {
			return fmt.Errorf("%w: served as %s", ErrNotHTML, mediaType)
		}
	}

	detected := mimetype.Detect(body)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: detected %s", ErrNotHTML, detected.String())
}

// decodeBody returns a UTF-8 reader for body. The charset comes from a
// byte order mark, the Content-Type header or a <meta> declaration; when
// none is present and the body is not UTF-8 it is detected with chardet.
func decodeBody(body []byte, contentType string) (io.Reader, string) {
	_, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == fallbackCharset {
		if res, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && res.Confidence >= minDetectConfidence {
			name = res.Charset
		}
	}

	r, err := charset.NewReaderLabel(name, bytes.NewReader(body))
	if err != nil {
		// unknown label, read the bytes as they are
		return bytes.NewReader(body), "utf-8"
	}
	return r, name
}
