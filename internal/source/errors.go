package source

import "errors"

var (
	// ErrInvalidProxyAddress is returned when a proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

	// ErrDisallowed is returned when robots.txt forbids fetching a document.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrNotHTML is returned when a response is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")
)
