package grammar

import "errors"

var (
	// ErrUnexpectedStatus is returned when the service answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from grammar service")

	// ErrInvalidResponse is returned when the response body is not valid JSON.
	ErrInvalidResponse = errors.New("invalid response from grammar service")
)
