// Package analysis runs the content analysis of one page: extraction,
// block segmentation and issue detection, producing a model.AnalysisReport.
//
// For every segment the local detector runs first, then the remote checker;
// a segment's group lists local issues before remote ones. Segments without
// issues produce no group. The groups of a report always follow extraction
// order, whatever the concurrency.
//
// Segments can be checked concurrently (WithConcurrency). The remote checker
// is expected to absorb its own failures, so the only error Analyze returns
// is the cancellation of its context.
package analysis
