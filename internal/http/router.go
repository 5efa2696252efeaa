package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/centavo/internal/http/handlers"
	"github.com/dropDatabas3/centavo/internal/http/middlewares"
	"github.com/dropDatabas3/centavo/internal/session"
)

// RouterConfig agrupa lo que el router necesita para armar la app.
type RouterConfig struct {
	Handlers    *handlers.Handlers
	Health      *handlers.Health
	Sessions    *session.Manager
	AdminAPIKey string
	Metrics     http.Handler // handler de /metrics, nil lo deshabilita
}

// NewRouter arma el árbol de rutas con la cadena de middlewares completa.
// El orden importa: request id primero (para que todo lo demás loggee con
// él), el gate de sesión al final (ya con logger en contexto).
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	h := cfg.Handlers

	// health + métricas
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	// flujo OAuth
	r.Get("/api/oauth/{provider}/start", h.OAuthStart)
	r.Get("/api/oauth/{provider}", h.OAuthCallback)

	// credenciales
	r.Post("/v1/auth/sign-up", h.SignUp)
	r.Post("/v1/auth/sign-in", h.SignIn)
	r.Post("/v1/auth/sign-out", h.SignOut)

	// API autenticada
	r.Get("/v1/me", h.Me)

	// superficie admin
	r.Route("/v1/admin", func(ar chi.Router) {
		ar.Use(middlewares.RequireAdminKey(cfg.AdminAPIKey))
		ar.Get("/ping", h.AdminPing)
		ar.Delete("/sessions/{id}", h.AdminRevokeSession)
	})

	// páginas: el frontend real vive aparte, acá solo lo mínimo para que
	// los redirects del gate tengan destino
	r.Get("/sign-in", handlers.SignInPage)
	r.Get("/sign-up", handlers.SignUpPage)
	r.Get("/", handlers.HomePage)
	r.Get("/{userID}", handlers.UserHomePage)

	return middlewares.Chain(r,
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
		WithMetrics,
		middlewares.WithSessionGate(cfg.Sessions),
	)
}
