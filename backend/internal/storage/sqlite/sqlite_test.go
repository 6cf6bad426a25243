package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(filepath.Join(t.TempDir(), "paddock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	_, ok, err := b.Get(ctx, "apex-media-photos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "apex-media-photos", []byte(`[{"id":"p1"}]`)))
	value, ok, err := b.Get(ctx, "apex-media-photos")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(value))

	require.NoError(t, b.Delete(ctx, "apex-media-photos"))
	_, ok, err = b.Get(ctx, "apex-media-photos")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackendRejectsInvalidJSON(t *testing.T) {
	b := newTestBackend(t)
	assert.Error(t, b.Put(context.Background(), "k", []byte("{oops")))
}

func TestBackendPutBatchRollsBack(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	err := b.PutBatch(ctx, map[string][]byte{"good": []byte(`1`), "bad": []byte(`{`)})
	require.Error(t, err)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, b.PutBatch(ctx, map[string][]byte{"a": []byte(`1`), "b": []byte(`2`)}))
	keys, err = b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "paddock.db")

	b, err := New(path)
	require.NoError(t, err)
	kv.NewStore(b).Write(ctx, "apex-forum-threads", []map[string]string{{"id": "t1"}})
	require.NoError(t, b.Close())

	b, err = New(path)
	require.NoError(t, err)
	defer b.Close()
	raw, ok := kv.NewStore(b).Read(ctx, "apex-forum-threads")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(raw))
}

func TestInMemoryDatabase(t *testing.T) {
	b, err := New(":memory:")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Put(context.Background(), "k", []byte(`true`)))
	_, ok, err := b.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
