package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// mustParse parses an HTML document or fails the test.
func mustParse(t *testing.T, src string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return root
}

// findByID returns the first element with the given id, searching template
// content too.
func findByID(root *html.Node, id string) *html.Node {
	if isElement(root) && getAttr(root, "id") == id {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findByID(c, id); n != nil {
			return n
		}
	}
	return nil
}

// texts returns the Text of each segment.
func texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}
