package rpc

import (
	"errors"

	"github.com/nao1215/copychecker/internal/model"
)

// Supported actions.
const (
	ActionPing        = "ping"
	ActionAnalyzePage = "analyzePage"
)

var (
	// ErrUnknownAction is returned for envelopes with an unsupported action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNotInitialized is returned by ping before the process is ready.
	ErrNotInitialized = errors.New("not initialized")

	// ErrNoSource is returned when analyzePage names neither url nor html.
	ErrNoSource = errors.New("either url or html is required")

	// ErrBothSources is returned when analyzePage names both url and html.
	ErrBothSources = errors.New("url and html are mutually exclusive")

	// ErrUnsupportedURL is returned for analyzePage URLs that are not http or https.
	ErrUnsupportedURL = errors.New("only http and https URLs can be analysed")

	// ErrUnsupportedContentType is returned for envelopes that are not JSON.
	ErrUnsupportedContentType = errors.New("content type must be application/json")
)

// Request is the envelope a host sends.
type Request struct {
	Action   string `json:"action"`
	Language string `json:"language,omitempty"`
	URL      string `json:"url,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// Response is the envelope sent back. Exactly one field is set.
type Response struct {
	Status string                    `json:"status,omitempty"`
	Issues []model.LocatedIssueGroup `json:"issues,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// analyzeResponse always carries the issues field, even when empty.
type analyzeResponse struct {
	Issues []model.LocatedIssueGroup `json:"issues"`
}

// errorResponse builds an error envelope.
func errorResponse(err error) Response {
	return Response{Error: err.Error()}
}
