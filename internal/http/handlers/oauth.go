package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dropDatabas3/centavo/internal/observability/logger"
)

// oauthErrorMessage es lo único que ve el usuario cuando un flujo OAuth
// falla, sin importar la causa. El detalle queda en los logs.
const oauthErrorMessage = "Failed to connect. Please try again."

func signInErrorURL() string {
	return "/sign-in?oAuthError=" + url.QueryEscape(oauthErrorMessage)
}

// OAuthStart maneja GET /api/oauth/{provider}/start: emite state y code
// verifier en cookies y redirige al proveedor.
func (h *Handlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := r.PathValue("provider")

	authURL, err := h.OAuth.AuthURL(ctx, w, provider)
	if err != nil {
		logger.From(ctx).Warn("oauth start failed",
			logger.Provider(provider), logger.Err(err))
		http.Redirect(w, r, signInErrorURL(), http.StatusFound)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback maneja GET /api/oauth/{provider}: valida state, canjea el
// code con PKCE, resuelve el usuario y abre sesión. Cualquier fallo termina
// el flujo con el mismo redirect genérico a /sign-in.
func (h *Handlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)
	provider := r.PathValue("provider")

	q := r.URL.Query()
	if e := strings.TrimSpace(q.Get("error")); e != "" {
		// el usuario canceló o el IDP rechazó; mismo tratamiento
		log.Warn("oauth provider error", logger.Provider(provider), logger.String("idp_error", e))
		observeSignIn(provider, "error")
		http.Redirect(w, r, signInErrorURL(), http.StatusFound)
		return
	}

	profile, err := h.OAuth.CompleteCallback(ctx, r, provider, q.Get("code"), q.Get("state"))
	if err != nil {
		log.Warn("oauth callback failed", logger.Provider(provider), logger.Err(err))
		observeSignIn(provider, "error")
		http.Redirect(w, r, signInErrorURL(), http.StatusFound)
		return
	}

	userID, err := h.Users.ResolveOAuthUser(ctx, profile, provider)
	if err != nil {
		log.Error("resolve oauth user failed", logger.Provider(provider), logger.Err(err))
		observeSignIn(provider, "error")
		http.Redirect(w, r, signInErrorURL(), http.StatusFound)
		return
	}

	if _, err := h.Sessions.Create(ctx, w, userID.String()); err != nil {
		log.Error("session create failed", logger.Err(err))
		observeSignIn(provider, "error")
		http.Redirect(w, r, signInErrorURL(), http.StatusFound)
		return
	}

	log.Info("oauth sign-in ok", logger.Provider(provider), logger.UserID(userID.String()))
	observeSignIn(provider, "ok")
	// el gate traduce "/" al home del usuario
	http.Redirect(w, r, "/", http.StatusFound)
}
