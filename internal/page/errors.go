package page

import "errors"

var (
	// ErrNotHTML is returned when the fetched payload is not text.
	ErrNotHTML = errors.New("content is not an HTML document")

	// ErrCrossOrigin is recorded on frames whose document is not
	// accessible from the parent page.
	ErrCrossOrigin = errors.New("frame is cross-origin")

	// ErrFrameDepth is recorded on frames nested deeper than the limit.
	ErrFrameDepth = errors.New("frame nesting limit reached")

	// ErrUnsupportedScheme is returned for targets that are neither
	// http(s) URLs nor local files.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrUnexpectedStatus is returned when the server does not answer 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")
)
