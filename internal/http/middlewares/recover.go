package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/centavo/internal/http/httpx"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
)

// WithRecover convierte pánicos en 500 en vez de tumbar el proceso.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recuperado",
						logger.Path(r.URL.Path),
						logger.String("recover", toString(rec)),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "panic recover", 1500)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "panic"
}
