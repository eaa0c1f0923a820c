package httpx

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the shared-secret header checked on data endpoints.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// the configured key. An empty configured key disables the check (dev mode).
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				got := r.Header.Get(APIKeyHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
					JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED",
						"Invalid or missing API key in header "+APIKeyHeader, nil)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
