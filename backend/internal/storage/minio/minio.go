// Package minio stores cover images in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const prefix = "covers/"

var _ service.BlobStore = (*Storage)(nil)

type Storage struct {
	client *mclient.Client
	bucket string
}

// New connects to the endpoint and creates the bucket when it is missing.
// The endpoint may carry a scheme; https selects TLS.
func New(ctx context.Context, blobs config.Blobs, creds config.Minio) (*Storage, error) {
	endpoint := blobs.Endpoint
	secure := blobs.UseSSL
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, blobs.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", blobs.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, blobs.Bucket, mclient.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", blobs.Bucket, err)
		}
	}

	return &Storage{client: client, bucket: blobs.Bucket}, nil
}

func objectKey(id string) string {
	return path.Join(prefix, id)
}

func isNotFound(err error) bool {
	resp := mclient.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

func (s *Storage) Save(ctx context.Context, id, mimeType string, r io.Reader) (int64, error) {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return 0, errors.Validation("invalid blob id %q", id)
	}
	info, err := s.client.PutObject(ctx, s.bucket, objectKey(id), r, -1, mclient.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return 0, fmt.Errorf("put cover %q: %w", id, err)
	}
	return info.Size, nil
}

func (s *Storage) Open(ctx context.Context, id string) (io.ReadCloser, domain.BlobInfo, error) {
	st, err := s.client.StatObject(ctx, s.bucket, objectKey(id), mclient.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.BlobInfo{}, errors.NotFound("cover", id)
		}
		return nil, domain.BlobInfo{}, fmt.Errorf("stat cover %q: %w", id, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(id), mclient.GetObjectOptions{})
	if err != nil {
		return nil, domain.BlobInfo{}, fmt.Errorf("get cover %q: %w", id, err)
	}
	return obj, domain.BlobInfo{Id: id, MimeType: st.ContentType, SizeBytes: st.Size, ModTime: st.LastModified}, nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey(id), mclient.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return fmt.Errorf("remove cover %q: %w", id, err)
	}
	return nil
}

func (s *Storage) List(ctx context.Context) ([]domain.BlobInfo, error) {
	var blobs []domain.BlobInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, mclient.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list covers: %w", obj.Err)
		}
		blobs = append(blobs, domain.BlobInfo{
			Id:        strings.TrimPrefix(obj.Key, prefix),
			MimeType:  obj.ContentType,
			SizeBytes: obj.Size,
			ModTime:   obj.LastModified,
		})
	}
	return blobs, nil
}
