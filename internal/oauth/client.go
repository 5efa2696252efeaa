package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/centavo/internal/observability/logger"
	tokens "github.com/dropDatabas3/centavo/internal/security/token"
)

const maxProviderBody = 1 << 20 // 1MB

// Client orquesta el flujo Authorization Code + PKCE contra un conjunto
// cerrado de proveedores. Todas las operaciones son por-request y sin estado
// mutable compartido; es seguro usar un único Client para todo el proceso.
type Client struct {
	redirectBase string
	flow         FlowStore
	hc           *http.Client
	providers    map[string]*Provider
}

// NewClient crea el orquestador. redirectBase es la URL base desde la que se
// deriva el redirect_uri por proveedor (base + "/" + nombre); cada consola de
// proveedor debe permitir exactamente esa URI.
func NewClient(redirectBase string, flow FlowStore, providers ...*Provider) *Client {
	m := make(map[string]*Provider, len(providers))
	for _, p := range providers {
		m[p.Name] = p
	}
	return &Client{
		redirectBase: strings.TrimRight(redirectBase, "/"),
		flow:         flow,
		hc:           &http.Client{Timeout: 10 * time.Second},
		providers:    m,
	}
}

// Provider retorna el proveedor registrado bajo name.
func (c *Client) Provider(name string) (*Provider, bool) {
	p, ok := c.providers[name]
	return p, ok
}

// RedirectURL deriva el redirect_uri del proveedor. Debe coincidir byte a byte
// entre el authorize request y el token exchange.
func (c *Client) RedirectURL(p *Provider) string {
	return c.redirectBase + "/" + p.Name
}

// AuthURL inicia un intento de autorización: emite state y code_verifier
// (cookies en w) y construye la URL de consentimiento del proveedor.
func (c *Client) AuthURL(ctx context.Context, w http.ResponseWriter, providerName string) (string, error) {
	p, ok := c.Provider(providerName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	state, err := c.flow.IssueState(w)
	if err != nil {
		return "", err
	}
	verifier, err := c.flow.IssueCodeVerifier(w)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(p.URLs.Auth)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", c.RedirectURL(p))
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(p.Scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", tokens.S256Challenge(verifier))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CompleteCallback completa el callback del proveedor: valida state, recupera
// el verifier, intercambia el code y obtiene el perfil canónico. Cada paso es
// precondición del siguiente; cualquier fallo es terminal para este intento.
func (c *Client) CompleteCallback(ctx context.Context, r *http.Request, providerName, code, state string) (Profile, error) {
	p, ok := c.Provider(providerName)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	if !c.flow.ValidateState(r, state) {
		return Profile{}, ErrInvalidState
	}

	verifier, err := c.flow.CodeVerifier(r)
	if err != nil {
		return Profile{}, err
	}

	tok, err := c.exchangeToken(ctx, p, code, verifier)
	if err != nil {
		return Profile{}, err
	}

	raw, err := c.fetchUserInfo(ctx, p, tok)
	if err != nil {
		return Profile{}, err
	}

	prof, err := p.Normalize(raw)
	if err != nil {
		logger.From(ctx).Warn("userinfo shape rejected", logger.Provider(p.Name), logger.Err(err))
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	if prof.Email == "" && p.FetchEmail != nil {
		email, err := p.FetchEmail(ctx, c.hc, tok.TokenType, tok.AccessToken)
		if err != nil {
			logger.From(ctx).Warn("email fallback failed", logger.Provider(p.Name), logger.Err(err))
			return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
		prof.Email = email
	}
	if prof.ID == "" || prof.Email == "" {
		return Profile{}, fmt.Errorf("%w: incomplete profile", ErrInvalidProfile)
	}
	return prof, nil
}

// exchangeToken intercambia el authorization code por un access token.
// Sin retries: los codes son single-use por contrato del proveedor.
func (c *Client) exchangeToken(ctx context.Context, p *Provider, code, verifier string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURL(p))
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URLs.Token, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", ErrInvalidTokenResponse, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		// Timeouts incluidos: el intento muere acá, reintentar con el mismo
		// code fallaría igual.
		logger.From(ctx).Warn("token exchange failed", logger.Provider(p.Name), logger.Err(err))
		return TokenResponse{}, fmt.Errorf("%w: %v", ErrInvalidTokenResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		logger.From(ctx).Warn("token endpoint error",
			logger.Provider(p.Name), logger.Int("status", resp.StatusCode))
		return TokenResponse{}, fmt.Errorf("%w: http %d", ErrInvalidTokenResponse, resp.StatusCode)
	}

	var tr TokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProviderBody)).Decode(&tr); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", ErrInvalidTokenResponse, err)
	}
	if tr.AccessToken == "" || tr.TokenType == "" {
		return TokenResponse{}, fmt.Errorf("%w: missing access_token/token_type", ErrInvalidTokenResponse)
	}
	return tr, nil
}

// fetchUserInfo hace el único GET autenticado al userinfo endpoint.
// Sin caching: cada callback hace exactamente un fetch.
func (c *Client) fetchUserInfo(ctx context.Context, p *Provider, tok TokenResponse) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URLs.UserInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	req.Header.Set("Authorization", tok.TokenType+" "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		logger.From(ctx).Warn("userinfo fetch failed", logger.Provider(p.Name), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.From(ctx).Warn("userinfo endpoint error",
			logger.Provider(p.Name), logger.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: http %d", ErrInvalidProfile, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
}
