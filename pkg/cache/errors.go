package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingURL is returned when a network backend has no address.
	ErrMissingURL = errors.New("cache backend requires a URL")

	// ErrCorruptEntry is returned when a stored entry cannot be decoded.
	// Backends treat it as a miss and drop the entry.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)
