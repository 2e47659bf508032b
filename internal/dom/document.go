package dom

import (
	"net/url"

	"golang.org/x/net/html"
)

// Document is a parsed HTML tree together with the documents its frames
// resolved to.
type Document struct {
	// URL is the address the document was loaded from. It may be nil for
	// documents built from a string.
	URL *url.URL

	// Root is the document node returned by html.Parse.
	Root *html.Node

	// Frames lists the <iframe> elements of Root in document order.
	Frames []*Frame
}

// Frame is an <iframe> element and the document it embeds.
type Frame struct {
	// Element is the <iframe> element in the parent document.
	Element *html.Node

	// Source is the srcdoc marker "about:srcdoc" or the resolved src URL.
	Source string

	// Document is the embedded document, or nil if it could not be accessed.
	Document *Document

	// Err explains why Document is nil.
	Err error
}

// Accessible reports whether the frame's document can be traversed.
func (f *Frame) Accessible() bool {
	return f != nil && f.Document != nil && f.Document.Root != nil
}

// frameFor returns the Frame registered for the given <iframe> element.
func (d *Document) frameFor(el *html.Node) *Frame {
	if d == nil {
		return nil
	}
	for _, f := range d.Frames {
		if f.Element == el {
			return f
		}
	}
	return nil
}
