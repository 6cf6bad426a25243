package service

import (
	"context"
	"io"

	"github.com/apexcharge/paddock/shared/domain"
)

// BlobStore keeps cover images keyed by photo id.
type BlobStore interface {
	// Save stores r under id, replacing any previous blob, and returns the bytes written.
	Save(ctx context.Context, id, mimeType string, r io.Reader) (int64, error)

	// Open returns the blob for streaming. A missing blob is a NotFoundError.
	Open(ctx context.Context, id string) (io.ReadCloser, domain.BlobInfo, error)

	// Delete removes the blob. Deleting a missing blob succeeds.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context) ([]domain.BlobInfo, error)
}
