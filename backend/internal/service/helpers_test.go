package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

// --- Actors ---

var (
	alice = &domain.Actor{Id: "u-alice", Email: "alice@apex.dev", Name: "alice", Role: domain.RoleUser}
	bob   = &domain.Actor{Id: "u-bob", Email: "bob@apex.dev", Name: "bob", Role: domain.RoleUser}
	admin = &domain.Actor{Id: "u-admin", Email: "boss@apex.dev", Name: "boss", Role: domain.RoleAdmin}
)

// --- Helpers ---

func testConfig() *config.Public {
	return &config.Public{
		ThreadsPerPage:        10,
		CommentsPerPage:       2,
		RepliesPerPage:        2,
		PhotosPerPage:         12,
		AllowedImageMimeTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"},
	}
}

func newRecords(t *testing.T) *records.Records {
	t.Helper()
	return records.New(kv.NewStore(kv.NewMemory()), records.NewKeys("test"), records.NewNormalizer())
}

// clock hands out strictly increasing times so ordering is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

// --- Mocks ---

// MockBlobStore keeps blobs in memory. Function fields override the defaults.
type MockBlobStore struct {
	saveFunc   func(id, mimeType string, data []byte) error
	deleteFunc func(id string) error
	listFunc   func() ([]domain.BlobInfo, error)

	mu          sync.Mutex
	blobs       map[string][]byte
	info        map[string]domain.BlobInfo
	deleteCalls []string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{blobs: map[string][]byte{}, info: map[string]domain.BlobInfo{}}
}

func (m *MockBlobStore) put(id, mimeType string, data []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[id] = data
	m.info[id] = domain.BlobInfo{Id: id, MimeType: mimeType, SizeBytes: int64(len(data)), ModTime: modTime}
}

func (m *MockBlobStore) Save(_ context.Context, id, mimeType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if m.saveFunc != nil {
		if err := m.saveFunc(id, mimeType, data); err != nil {
			return 0, err
		}
	}
	m.put(id, mimeType, data, time.Now())
	return int64(len(data)), nil
}

func (m *MockBlobStore) Open(_ context.Context, id string) (io.ReadCloser, domain.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[id]
	if !ok {
		return nil, domain.BlobInfo{}, errors.NotFound("cover", id)
	}
	return io.NopCloser(bytes.NewReader(data)), m.info[id], nil
}

func (m *MockBlobStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, id)
	m.mu.Unlock()

	if m.deleteFunc != nil {
		if err := m.deleteFunc(id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, id)
	delete(m.info, id)
	return nil
}

func (m *MockBlobStore) List(context.Context) ([]domain.BlobInfo, error) {
	if m.listFunc != nil {
		return m.listFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.BlobInfo, 0, len(m.info))
	for _, info := range m.info {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (m *MockBlobStore) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[id]
	return ok
}
