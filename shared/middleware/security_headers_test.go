package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersWithCSP(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeadersWithCSP(false, "")(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
	})

	t.Run("https with csp", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeadersWithCSP(true, "default-src 'none'")(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, "default-src 'none'", rr.Header().Get("Content-Security-Policy"))
		assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
	})
}
