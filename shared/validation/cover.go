package validation

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apexcharge/paddock/shared/domain"
)

// ValidateCover checks an uploaded cover against the allowed types and size
// and opens it. The returned cover's Data must be closed by the caller once
// consumed; it is a multipart.File.
func ValidateCover(fileHeader *multipart.FileHeader, allowedMimes []string, maxSize int64) (*domain.PendingCover, multipart.File, error) {
	if fileHeader == nil {
		return nil, nil, nil
	}
	if fileHeader.Size > maxSize {
		return nil, nil, fmt.Errorf("%w: %.1f MB (max %.1f MB)", ErrCoverTooLarge, FormatSizeMB(fileHeader.Size), FormatSizeMB(maxSize))
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		return nil, nil, err
	}
	if !slices.Contains(allowedMimes, mimeType) {
		return nil, nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	return &domain.PendingCover{
		Filename:  fileHeader.Filename,
		MimeType:  mimeType,
		SizeBytes: fileHeader.Size,
		Data:      file,
	}, file, nil
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename))); detected != "" {
			mimeType = detected
		}
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	// Drop parameters such as "; charset=binary".
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	return mimeType, nil
}
