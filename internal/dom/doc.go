// Package dom turns a parsed HTML page into the ordered text segments that
// copychecker analyses.
//
// The package covers four steps, each usable on its own:
//   - Locator builds a structural path such as "body > div#main > p.intro"
//   - Visibility decides whether an element is hidden from the reader,
//     using an approximate computed style built by StyleSheet
//   - Extract walks the main document, then embedded frame documents, then
//     shadow roots, and returns one Segment per non-empty text node
//   - NewSegmentation groups segments by their nearest block-level element
//     and attaches a BlockContext to each
//
// # Documents, frames and shadow roots
//
// A Document is a parsed tree plus the frame documents its <iframe> elements
// resolved to. Frames are resolved by the caller (see package page) before
// extraction; a Frame whose Document is nil was not accessible and its
// content is skipped.
//
// Shadow roots are declarative: a <template shadowrootmode="open"> (or the
// older shadowroot attribute) that is the child of an element. Template
// content is never part of the light tree, so a template element is treated
// as the root of its own subtree by every function in this package.
//
// # Offsets
//
// BlockContext.Offset is counted in Unicode code points, the unit used for
// every issue offset in copychecker.
package dom
