package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// getAttr returns the value of the named attribute, or "" if absent.
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether n carries the named attribute.
func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// isElement reports whether n is an element node.
func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// isTemplate reports whether n is a <template> element.
func isTemplate(n *html.Node) bool {
	return isElement(n) && n.DataAtom == atom.Template
}

// isShadowRoot reports whether n is a declarative shadow root, i.e. a
// template with a shadow root mode whose parent is an element (the host).
func isShadowRoot(n *html.Node) bool {
	if !isTemplate(n) || !isElement(n.Parent) {
		return false
	}
	return hasAttr(n, "shadowrootmode") || hasAttr(n, "shadowroot")
}

// findBody returns the <body> element of a document tree, or nil.
func findBody(root *html.Node) *html.Node {
	if isElement(root) && root.DataAtom == atom.Body {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if isTemplate(c) {
			continue
		}
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
