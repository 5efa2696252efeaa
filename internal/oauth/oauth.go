// Package oauth implements a generic OAuth 2.0 Authorization Code + PKCE client
// for social sign-in. Providers are plain configuration values (endpoints,
// scopes, credentials and a profile normalizer); the Client composes them with
// an ephemeral FlowStore into the two operations the app needs: building the
// authorization URL and completing the callback into a canonical Profile.
//
// Access tokens are used exactly once, to fetch profile info, and then
// discarded. No refresh tokens, no long-lived provider credentials.
package oauth

import (
	"context"
	"errors"
	"net/http"
)

// Profile es el perfil canónico, independiente del proveedor.
// Nunca se persiste: es el input de la resolución de identidad.
type Profile struct {
	ID    string // identificador externo, scoped al proveedor
	Email string
	Name  string
}

// Endpoints agrupa las tres URLs de un proveedor.
type Endpoints struct {
	Auth     string
	Token    string
	UserInfo string
}

// Provider describe un proveedor OAuth de forma data-driven.
// Inmutable durante la vida del proceso.
type Provider struct {
	Name         string
	ClientID     string
	ClientSecret string
	Scopes       []string
	URLs         Endpoints

	// Normalize valida la respuesta cruda del userinfo endpoint y la mapea
	// al perfil canónico. Un shape incompleto debe fallar con ErrInvalidProfile
	// en lugar de producir una identidad parcial. Un Email vacío está permitido
	// solo si el proveedor define FetchEmail.
	Normalize func(raw []byte) (Profile, error)

	// FetchEmail, si está definido, se invoca cuando el userinfo no trae email
	// (GitHub con email privado). Recibe el mismo access token del callback.
	FetchEmail func(ctx context.Context, hc *http.Client, tokenType, accessToken string) (string, error)
}

// TokenResponse es la respuesta del token endpoint.
// Cualquier campo faltante invalida el intercambio completo.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Errores terminales del flujo. Ninguno se reintenta: codes, states y
// verifiers son single-use, el usuario debe iniciar sign-in de nuevo.
var (
	ErrUnknownProvider      = errors.New("oauth: unknown provider")
	ErrInvalidState         = errors.New("oauth: invalid state")
	ErrMissingCodeVerifier  = errors.New("oauth: missing code verifier")
	ErrInvalidTokenResponse = errors.New("oauth: invalid token response")
	ErrInvalidProfile       = errors.New("oauth: invalid profile")
)
