package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags is the allow-list of elements that delimit a block of text.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Article:    true,
	atom.Section:    true,
	atom.Main:       true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Li:         true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Figcaption: true,
}

// BlockContext is the text of the block a segment belongs to.
type BlockContext struct {
	// FullText is the text of every segment of the block joined by single spaces.
	FullText string

	// PrecedingText is the text of the previous segment of the block, or "".
	PrecedingText string

	// FollowingText is the text of the next segment of the block, or "".
	FollowingText string

	// Offset is the code point offset of the segment's text in FullText.
	Offset int
}

// Block is one block-level element and the segments it owns.
type Block struct {
	// Node is the block element, used only as an identity handle.
	Node *html.Node

	// Members are indexes into Segmentation.Segments in extraction order.
	Members []int
}

// Segmentation is the result of grouping segments into blocks.
type Segmentation struct {
	// Segments are the input segments in their original order, each with
	// Context set.
	Segments []Segment

	// Blocks are ordered by the first appearance of their first member.
	Blocks []Block
}

// NewSegmentation groups segments by their nearest block-level element and
// attaches a BlockContext to a copy of each segment. The input is not
// modified.
//
// The block of a segment is the closest element from the allow-list among
// the owner element and its ancestors below the traversal root. When there
// is none, the owner element itself is the block.
func NewSegmentation(segments []Segment) *Segmentation {
	s := &Segmentation{Segments: make([]Segment, len(segments))}
	copy(s.Segments, segments)

	index := make(map[*html.Node]int)
	for i, seg := range s.Segments {
		node := FindBlock(seg.Element, seg.Root)
		bi, ok := index[node]
		if !ok {
			bi = len(s.Blocks)
			index[node] = bi
			s.Blocks = append(s.Blocks, Block{Node: node})
		}
		s.Blocks[bi].Members = append(s.Blocks[bi].Members, i)
	}

	for _, b := range s.Blocks {
		texts := make([]string, len(b.Members))
		for i, m := range b.Members {
			texts[i] = s.Segments[m].Text
		}
		full := strings.Join(texts, " ")

		offset := 0
		for i, m := range b.Members {
			ctx := &BlockContext{FullText: full, Offset: offset}
			if i > 0 {
				ctx.PrecedingText = texts[i-1]
			}
			if i < len(texts)-1 {
				ctx.FollowingText = texts[i+1]
			}
			s.Segments[m].Context = ctx
			offset += utf8.RuneCountInString(texts[i]) + 1
		}
	}

	return s
}

// FindBlock returns the nearest block-level element at or above el, stopping
// before root and at template boundaries. It returns el when no such
// element exists.
func FindBlock(el, root *html.Node) *html.Node {
	for n := el; isElement(n) && n != root && !isTemplate(n); n = n.Parent {
		if blockTags[n.DataAtom] {
			return n
		}
	}
	return el
}
