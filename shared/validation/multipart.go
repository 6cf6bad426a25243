package validation

import (
	"fmt"
	"net/http"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. Going over the cap makes the server stop reading, which
// browsers report as a connection reset; the client checks size before
// uploading so only misbehaving clients see it.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}
	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// It adds a buffer (typically 1 MiB) for form fields and multipart overhead.
func CalculateMaxRequestSize(maxCoverSize int64, bufferSize int64) int64 {
	return maxCoverSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
