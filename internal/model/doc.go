// Package model defines the data structures shared by the copychecker
// pipeline, its report writers and its history store.
//
// This package contains the following main types:
//   - Issue: A single writing-quality defect found in a text segment
//   - LocatedIssueGroup: The issues of one segment plus its structural locator
//   - AnalysisReport: The ordered result of analysing one page
//   - IssueKind, ContextKind, Language: Small enumerations
//
// The types carry JSON tags because reports are written as JSON, stored in
// the history database, and returned over the message boundary.
//
// This package must not import any other internal package.
package model
