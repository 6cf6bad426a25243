package utils

import (
	"bytes"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/microcosm-cc/bluemonday"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Sanitizer strips markup from user text. Threads, comments and replies are
// stored as plain text; markdown is rendered at read time.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes every tag and trims the result.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

var coverFormats = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// DecodeCover checks that an uploaded cover really is an image of a supported
// format and returns it ready to store. JPEG and PNG are re-encoded, which
// drops EXIF and other metadata; other formats are kept as uploaded.
func DecodeCover(cover *domain.PendingCover, maxDecodedSize int64) (*domain.PendingCover, error) {
	data, err := io.ReadAll(cover.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover data: %w", err)
	}

	// Check decoded size before decoding: a crafted header can claim a huge canvas.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image dimensions: %w", err)
	}
	mimeType, ok := coverFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if int64(cfg.Width)*int64(cfg.Height)*4 > maxDecodedSize {
		return nil, fmt.Errorf("image too large: %dx%d pixels, decoded size would exceed %d bytes limit", cfg.Width, cfg.Height, maxDecodedSize)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, img)
	default:
		buf.Write(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &domain.PendingCover{
		Filename:  cover.Filename,
		MimeType:  mimeType,
		SizeBytes: int64(buf.Len()),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Data:      &buf,
	}, nil
}
