package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	protected := APIKeyMiddleware("s3cret")(okHandler())

	t.Run("valid key", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books", nil)
		r.Header.Set(APIKeyHeader, "s3cret")

		protected.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books", nil)
		r.Header.Set(APIKeyHeader, "guess")

		protected.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty configured key disables the check", func(t *testing.T) {
		open := APIKeyMiddleware("")(okHandler())

		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
