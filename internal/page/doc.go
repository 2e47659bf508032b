// Package page loads the document a scan analyses.
//
// A target is either an http(s) URL or a local HTML file. The Loader fetches
// the body, rejects payloads that are not text, decodes the character set,
// parses the HTML and resolves every <iframe> into a frame document, so the
// result is a dom.Document ready for extraction.
//
// # Frames
//
// Frame documents are resolved the way a content script can reach them:
//   - srcdoc frames are parsed inline and share the parent's origin
//   - src frames are fetched only when they are same-origin (same scheme
//     and host) with the parent
//   - cross-origin, data: and javascript: frames are recorded with
//     ErrCrossOrigin and no document
//   - nesting is limited by WithMaxFrameDepth
//
// A frame that fails to load never fails the page; the error is stored on
// the dom.Frame and the extractor skips it.
//
// # Fetching
//
// HTTPFetcher retries transient failures with go-retryablehttp and can route
// requests through a SOCKS5 proxy. FileFetcher reads local files. Both limit
// the body size.
package page
