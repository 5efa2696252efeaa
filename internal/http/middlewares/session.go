package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/centavo/internal/observability/logger"
	"github.com/dropDatabas3/centavo/internal/session"
)

// publicPrefixes: rutas alcanzables sin sesión. Todo lo demás exige login.
var publicPrefixes = []string{
	"/sign-in",
	"/sign-up",
	"/api/oauth/",
	"/v1/auth/",
	"/v1/admin",
	"/healthz",
	"/readyz",
	"/metrics",
}

// publicOnly: páginas que no tienen sentido con sesión activa.
var publicOnly = []string{"/sign-in", "/sign-up"}

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isPublicOnly(path string) bool {
	for _, p := range publicOnly {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// WithSessionGate resuelve la sesión de la cookie y decide el acceso:
//
//   - sin sesión en ruta protegida: redirect a /sign-in (y se limpia la
//     cookie muerta si venía una)
//   - con sesión en /sign-in, /sign-up o "/": redirect a /{userID}
//   - con sesión en ruta protegida: sigue, con la sesión en el contexto
//     y el TTL extendido (expiración deslizante)
//
// Un error del backend de sesiones se trata como "sin sesión" para no
// dejar la app caída por un Redis intermitente.
func WithSessionGate(mgr *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			path := r.URL.Path

			sess, err := mgr.FromRequest(ctx, r)
			if err != nil {
				logger.From(ctx).Warn("session backend error", logger.Err(err))
				sess = nil
			}

			if sess == nil {
				if isPublic(path) {
					next.ServeHTTP(w, r)
					return
				}
				// cookie presente pero inválida: se limpia antes del redirect
				if _, cerr := r.Cookie(mgr.CookieName()); cerr == nil {
					mgr.ClearCookie(w)
				}
				http.Redirect(w, r, "/sign-in", http.StatusFound)
				return
			}

			if path == "/" || isPublicOnly(path) {
				http.Redirect(w, r, "/"+sess.UserID, http.StatusFound)
				return
			}

			if !isPublic(path) {
				// expiración deslizante: cada request autenticada renueva TTL y cookie
				if rerr := mgr.Refresh(ctx, w, r); rerr != nil {
					logger.From(ctx).Warn("session refresh failed", logger.Err(rerr))
				}
			}
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}
