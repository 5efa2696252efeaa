package oauth

import (
	"net/http"
	"time"

	tokens "github.com/dropDatabas3/centavo/internal/security/token"
)

// Cookies del intento de autorización. Ambas se emiten juntas al iniciar un
// sign-in y se sobreescriben en el siguiente intento.
const (
	stateCookieName    = "oAuthState"
	verifierCookieName = "oAuthCodeVerifier"
)

// DefaultFlowTTL es la ventana de validez de un intento de autorización.
const DefaultFlowTTL = 10 * time.Minute

// FlowStore gestiona los tokens efímeros de un intento de autorización:
// el state anti-CSRF y el code_verifier PKCE. Es una capability para que
// los tests puedan sustituir el transporte de cookies.
type FlowStore interface {
	// IssueState genera y almacena un state nuevo, y lo retorna.
	IssueState(w http.ResponseWriter) (string, error)

	// ValidateState compara candidate contra el state almacenado.
	// No consume el state; se sobreescribe en el próximo flujo.
	ValidateState(r *http.Request, candidate string) bool

	// IssueCodeVerifier genera y almacena un verifier nuevo, y lo retorna.
	IssueCodeVerifier(w http.ResponseWriter) (string, error)

	// CodeVerifier lee el verifier almacenado. Su ausencia es un fallo duro:
	// el callback llegó sin una iniciación que le corresponda.
	CodeVerifier(r *http.Request) (string, error)
}

// CookieFlowStore implementa FlowStore sobre cookies Secure/HttpOnly/Lax
// de corta vida, una por token.
type CookieFlowStore struct {
	TTL    time.Duration // default DefaultFlowTTL
	Secure bool
}

func (s *CookieFlowStore) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultFlowTTL
}

func (s *CookieFlowStore) issue(w http.ResponseWriter, name string) (string, error) {
	tok, err := tokens.GenerateOpaqueToken(64)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.ttl().Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return tok, nil
}

func (s *CookieFlowStore) IssueState(w http.ResponseWriter) (string, error) {
	return s.issue(w, stateCookieName)
}

func (s *CookieFlowStore) ValidateState(r *http.Request, candidate string) bool {
	c, err := r.Cookie(stateCookieName)
	if err != nil || c.Value == "" || candidate == "" {
		return false
	}
	return tokens.ConstantTimeEquals(c.Value, candidate)
}

func (s *CookieFlowStore) IssueCodeVerifier(w http.ResponseWriter) (string, error) {
	return s.issue(w, verifierCookieName)
}

func (s *CookieFlowStore) CodeVerifier(r *http.Request) (string, error) {
	c, err := r.Cookie(verifierCookieName)
	if err != nil || c.Value == "" {
		return "", ErrMissingCodeVerifier
	}
	return c.Value, nil
}
