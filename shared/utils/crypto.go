package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func NewID() string {
	return uuid.NewString()
}

// GenerateKey returns 32 random bytes as base64, suitable as jwt_key.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// MaxDeleteSecretBytes is the longest password bcrypt accepts.
const MaxDeleteSecretBytes = 72

// HashDeleteSecret hashes a guest delete password for storage on a photo record.
func HashDeleteSecret(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash delete secret: %w", err)
	}
	return string(hash), nil
}

// CheckDeleteSecret verifies plain against a stored hash. Besides bcrypt it
// accepts the SHA-256 hex digests and the 8-hex fallback digests written by
// the browser client before hashes moved server side.
func CheckDeleteSecret(hash, plain string) bool {
	switch {
	case hash == "":
		return false
	case strings.HasPrefix(hash, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	case len(hash) == sha256.Size*2:
		sum := sha256.Sum256([]byte(plain))
		return constantTimeEqualFold(hash, hex.EncodeToString(sum[:]))
	case len(hash) == 8:
		return constantTimeEqualFold(hash, legacyHash(plain))
	}
	return false
}

// legacyHash is the 31-multiplier rolling hash over UTF-16 code units, as 8 hex digits.
func legacyHash(plain string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(plain)) {
		h = h*31 + int32(c)
	}
	return fmt.Sprintf("%08x", uint32(h))
}

func constantTimeEqualFold(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(a)), []byte(strings.ToLower(b))) == 1
}
