// Package fs stores cover images on the local filesystem.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

var _ service.BlobStore = (*Storage)(nil)

var validId = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}
	return &Storage{rootPath: p}, nil
}

func mimeByExt(ext string) string {
	for mime, e := range extByMime {
		if e == ext {
			return mime
		}
	}
	return "application/octet-stream"
}

// find returns the path of the blob stored for id, whatever its extension.
func (s *Storage) find(id string) (string, error) {
	if !validId.MatchString(id) {
		return "", errors.NotFound("cover", id)
	}
	matches, err := filepath.Glob(filepath.Join(s.rootPath, id+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to look up cover: %w", err)
	}
	if len(matches) == 0 {
		return "", errors.NotFound("cover", id)
	}
	return matches[0], nil
}

// Save writes the blob to a temp file and renames it into place.
func (s *Storage) Save(_ context.Context, id, mimeType string, r io.Reader) (int64, error) {
	if !validId.MatchString(id) {
		return 0, errors.Validation("invalid blob id %q", id)
	}
	ext, ok := extByMime[mimeType]
	if !ok {
		return 0, errors.Validation("unsupported cover type %q", mimeType)
	}

	tmp, err := os.CreateTemp(s.rootPath, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after rename

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to copy file data: %w", err)
	}

	target := filepath.Join(s.rootPath, id+ext)
	if old, err := s.find(id); err == nil && old != target {
		os.Remove(old)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, nil
}

func (s *Storage) Open(_ context.Context, id string) (io.ReadCloser, domain.BlobInfo, error) {
	path, err := s.find(id)
	if err != nil {
		return nil, domain.BlobInfo{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.BlobInfo{}, errors.NotFound("cover", id)
		}
		return nil, domain.BlobInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, domain.BlobInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return f, domain.BlobInfo{Id: id, MimeType: mimeByExt(filepath.Ext(path)), SizeBytes: st.Size(), ModTime: st.ModTime()}, nil
}

// Delete removes the blob. A missing blob is not an error.
func (s *Storage) Delete(_ context.Context, id string) error {
	path, err := s.find(id)
	if errors.Is[*errors.NotFoundError](err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Storage) List(_ context.Context) ([]domain.BlobInfo, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}
	var blobs []domain.BlobInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := filepath.Ext(e.Name())
		id := strings.TrimSuffix(e.Name(), ext)
		if !validId.MatchString(id) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed concurrently
		}
		blobs = append(blobs, domain.BlobInfo{Id: id, MimeType: mimeByExt(ext), SizeBytes: info.Size(), ModTime: info.ModTime()})
	}
	return blobs, nil
}
