package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDeleteSecret(t *testing.T) {
	t.Run("bcrypt round trip", func(t *testing.T) {
		hash, err := HashDeleteSecret("abcd")
		require.NoError(t, err)
		assert.NotEqual(t, "abcd", hash)

		assert.True(t, CheckDeleteSecret(hash, "abcd"))
		assert.False(t, CheckDeleteSecret(hash, "wrong"))
	})

	t.Run("legacy sha256 hex", func(t *testing.T) {
		// sha256("abcd")
		const hash = "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589"
		assert.True(t, CheckDeleteSecret(hash, "abcd"))
		assert.False(t, CheckDeleteSecret(hash, "abce"))
	})

	t.Run("legacy fallback hash", func(t *testing.T) {
		// 'a'=97 'b'=98 'c'=99 'd'=100 -> 2987074 = 0x2d9442
		assert.Equal(t, "002d9442", legacyHash("abcd"))
		assert.True(t, CheckDeleteSecret("002d9442", "abcd"))
		assert.False(t, CheckDeleteSecret("002d9442", "dcba"))
	})

	t.Run("no hash never matches", func(t *testing.T) {
		assert.False(t, CheckDeleteSecret("", ""))
		assert.False(t, CheckDeleteSecret("", "abcd"))
		assert.False(t, CheckDeleteSecret("not-a-hash", "abcd"))
	})
}

func TestHashDeleteSecretLength(t *testing.T) {
	longest := strings.Repeat("a", MaxDeleteSecretBytes)
	hash, err := HashDeleteSecret(longest)
	require.NoError(t, err)
	assert.True(t, CheckDeleteSecret(hash, longest))

	_, err = HashDeleteSecret(longest + "a")
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
