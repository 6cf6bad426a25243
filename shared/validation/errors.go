package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded cover has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrCoverTooLarge is returned when the cover file alone is over the configured size
var ErrCoverTooLarge = errors.New("cover too large")
