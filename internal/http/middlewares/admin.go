package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dropDatabas3/centavo/internal/http/httpx"
)

// RequireAdminKey protege la superficie /v1/admin con una API key estática.
// Si no hay key configurada la superficie queda deshabilitada (403 siempre).
func RequireAdminKey(apiKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get("X-Admin-API-Key"))
			if apiKey == "" || got == "" ||
				subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "admin key inválida", 1403)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
