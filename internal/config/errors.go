package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting human-readable messages.
var (
	// ErrNoTarget is returned when no URL or file is given to scan.
	ErrNoTarget = errors.New("no target specified: provide a URL or a file path")

	// ErrInvalidLanguage is returned when the language is neither UK nor US.
	ErrInvalidLanguage = errors.New("invalid language: must be UK or US")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCheckTimeout is returned when the grammar check timeout is not positive.
	ErrInvalidCheckTimeout = errors.New("invalid check timeout: must be positive")

	// ErrInvalidConcurrency is returned when the segment concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the number of concurrent page
	// scans is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidRequestsPerMinute is returned when the grammar service rate
	// limit is negative. Zero disables rate limiting.
	ErrInvalidRequestsPerMinute = errors.New("invalid requests per minute: must be non-negative")

	// ErrInvalidFrameDepth is returned when the frame depth is negative.
	ErrInvalidFrameDepth = errors.New("invalid max frame depth: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidAPIURL is returned when the grammar service URL is not an
	// absolute http(s) URL.
	ErrInvalidAPIURL = errors.New("invalid API URL: must be an absolute http or https URL")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --tsv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --tsv")
)
