// Package main provides the entry point for the CopyChecker CLI.
//
// CopyChecker scans web pages for writing-quality defects: runs of
// double spaces found locally, and spelling and grammar issues reported
// by a LanguageTool-compatible service.
//
// Usage:
//
//	copychecker scan <url|file>...
//	copychecker history <url>
//	copychecker serve
//
// See --help for all available options.
package main

// main is the entry point for CopyChecker.
func main() {
	Execute()
}
