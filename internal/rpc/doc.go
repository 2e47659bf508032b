// Package rpc exposes the analyzer to a host application over HTTP.
//
// A host sends one JSON envelope per request to POST /message:
//
//	{"action": "ping"}
//	{"action": "analyzePage", "language": "US", "url": "https://example.com/"}
//	{"action": "analyzePage", "html": "<p>Some  text</p>"}
//
// ping answers {"status":"ok"} once the process has been marked ready with
// MarkReady, and 503 {"error":"not initialized"} before that. analyzePage
// answers {"issues":[...]} with the located issue groups of the page, or
// {"error":"..."} when the page could not be loaded or analysed.
//
// GET /metrics serves the Prometheus collectors of the process.
package rpc
