package redis

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	b, err := New("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b, s
}

func TestNew(t *testing.T) {
	b, _ := setupTestRedis(t)
	assert.NoError(t, b.Ping(context.Background()))

	_, err := New("not a url")
	assert.Error(t, err)
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, s := setupTestRedis(t)

	_, ok, err := b.Get(ctx, "apex-forum-threads")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "apex-forum-threads", []byte(`[]`)))
	assert.True(t, s.Exists("paddock:apex-forum-threads"), "keys are stored under the prefix")

	value, ok, err := b.Get(ctx, "apex-forum-threads")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, b.Delete(ctx, "apex-forum-threads"))
	_, ok, err = b.Get(ctx, "apex-forum-threads")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackendKeysOnlyOwnPrefix(t *testing.T) {
	ctx := context.Background()
	b, s := setupTestRedis(t)
	require.NoError(t, s.Set("someone-else", "x"))

	require.NoError(t, b.PutBatch(ctx, map[string][]byte{
		"apex-media-photos":  []byte(`[]`),
		"apex-forum-replies": []byte(`{}`),
	}))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"apex-forum-replies", "apex-media-photos"}, keys)
}

func TestStoreSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	b, s := setupTestRedis(t)
	store := kv.NewStore(b)

	store.Write(ctx, "apex-media-photos", []string{"p1"})
	s.Close()

	_, ok := store.Read(ctx, "apex-media-photos")
	assert.False(t, ok, "read fault degrades to absence")

	store.Write(ctx, "apex-media-photos", []string{"p2"})
	raw, ok := store.Read(ctx, "apex-media-photos")
	require.True(t, ok, "failed write is served from the overlay")
	assert.JSONEq(t, `["p2"]`, string(raw))
}
