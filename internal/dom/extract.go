package dom

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/copychecker/internal/model"
)

// Segment is one non-empty run of text found during extraction.
// Segments are values; NewSegmentation returns copies with Context set.
type Segment struct {
	// Text is the trimmed content of the text node.
	Text string

	// Element is the element that owns the text node.
	Element *html.Node

	// Locator is the structural path of Element.
	Locator string

	// Kind tells where the text was found. It never changes after extraction.
	Kind model.ContextKind

	// Root is the node the traversal that found the segment started from:
	// a document node or a shadow root template.
	Root *html.Node

	// Context is the surrounding block text, nil until segmentation.
	Context *BlockContext
}

// skipText lists elements whose text children are never extracted.
// <iframe> children are the raw fallback markup, not rendered text.
var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
}

// extractOptions holds the settings of one Extract call.
type extractOptions struct {
	logger *slog.Logger
}

// ExtractOption configures Extract.
type ExtractOption func(*extractOptions)

// WithLogger sets the logger used to report skipped frames.
func WithLogger(logger *slog.Logger) ExtractOption {
	return func(o *extractOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// traversal is one pending root of the extraction queue.
type traversal struct {
	// start is the node the walk begins at.
	start *html.Node

	// root is recorded on every segment found by this walk.
	root *html.Node

	// doc resolves frames found during the walk.
	doc *Document

	// inherited is ContextIframe or ContextShadowDOM for sub-traversals and
	// "" for the main document.
	inherited model.ContextKind
}

// Extract returns the text segments of doc in traversal order: the main
// document body first, then the body of every accessible frame in document
// order, then every shadow root of the main document in document order.
// Frames and shadow roots found while walking a frame or a shadow root are
// appended to the end of the queue.
//
// Text under script, style and noscript elements and inside template
// content is skipped, as is whitespace-only text.
func Extract(doc *Document, opts ...ExtractOption) []Segment {
	o := &extractOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if doc == nil || doc.Root == nil {
		return nil
	}

	vis := NewVisibility(NewStyleSheet(doc.Root))
	queue := []traversal{{start: bodyOrRoot(doc.Root), root: doc.Root, doc: doc}}

	var segments []Segment
	for i := 0; i < len(queue); i++ {
		t := queue[i]
		found, frames, shadows := walkText(t, vis)
		segments = append(segments, found...)

		for _, el := range frames {
			f := t.doc.frameFor(el)
			if !f.Accessible() {
				args := []any{"locator", Locator(el)}
				if f != nil {
					args = append(args, "source", f.Source)
					if f.Err != nil {
						args = append(args, "error", f.Err)
					}
				}
				o.logger.Debug("skipping inaccessible frame", args...)
				continue
			}
			queue = append(queue, traversal{
				start:     bodyOrRoot(f.Document.Root),
				root:      f.Document.Root,
				doc:       f.Document,
				inherited: model.ContextIframe,
			})
		}

		for _, tmpl := range shadows {
			kind := t.inherited
			if kind == "" {
				kind = model.ContextShadowDOM
			}
			queue = append(queue, traversal{start: tmpl, root: tmpl, doc: t.doc, inherited: kind})
		}
	}

	return segments
}

// bodyOrRoot returns the <body> of a document tree, or root itself.
func bodyOrRoot(root *html.Node) *html.Node {
	if b := findBody(root); b != nil {
		return b
	}
	return root
}

// walkText collects the text segments under t.start and the <iframe>
// elements and shadow roots met on the way, both in document order.
func walkText(t traversal, vis *Visibility) (segments []Segment, frames, shadows []*html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if seg, ok := textSegment(n, t, vis); ok {
				segments = append(segments, seg)
			}
			return
		case n != t.start && isTemplate(n):
			if isShadowRoot(n) {
				shadows = append(shadows, n)
			}
			return
		case isElement(n) && n.DataAtom == atom.Iframe:
			frames = append(frames, n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(t.start)

	return segments, frames, shadows
}

// textSegment builds the Segment for a text node, if it has one. Text that
// is a direct child of a shadow root has no owning element and is skipped.
func textSegment(n *html.Node, t traversal, vis *Visibility) (Segment, bool) {
	owner := n.Parent
	if !isElement(owner) || isTemplate(owner) || skipText[owner.DataAtom] {
		return Segment{}, false
	}
	text := strings.TrimSpace(n.Data)
	if text == "" {
		return Segment{}, false
	}

	kind := t.inherited
	if kind == "" {
		kind = model.ContextStandard
		if vis.Hidden(owner) {
			kind = model.ContextHidden
		}
	}

	return Segment{
		Text:    text,
		Element: owner,
		Locator: Locator(owner),
		Kind:    kind,
		Root:    t.root,
	}, true
}
