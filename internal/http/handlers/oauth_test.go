package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/centavo/internal/oauth"
)

const wantErrorRedirect = "/sign-in?oAuthError=Failed+to+connect.+Please+try+again."

// fakeIDP es un proveedor OAuth falso detrás de httptest.
type fakeIDP struct {
	srv          *httptest.Server
	tokenBody    map[string]any
	userInfoBody string
}

func newFakeIDP(t *testing.T) *fakeIDP {
	t.Helper()
	f := &fakeIDP{
		tokenBody:    map[string]any{"access_token": "T", "token_type": "Bearer"},
		userInfoBody: `{"sub":"ext-1","email":"maria@example.com","name":"María"}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.tokenBody)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.userInfoBody))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIDP) provider() *oauth.Provider {
	return &oauth.Provider{
		Name:     "acme",
		ClientID: "cid",
		Scopes:   []string{"email"},
		URLs: oauth.Endpoints{
			Auth:     f.srv.URL + "/authorize",
			Token:    f.srv.URL + "/token",
			UserInfo: f.srv.URL + "/userinfo",
		},
		Normalize: func(raw []byte) (oauth.Profile, error) {
			var u struct {
				Sub   string `json:"sub"`
				Email string `json:"email"`
				Name  string `json:"name"`
			}
			if err := json.Unmarshal(raw, &u); err != nil {
				return oauth.Profile{}, err
			}
			if u.Sub == "" || u.Email == "" {
				return oauth.Profile{}, oauth.ErrInvalidProfile
			}
			return oauth.Profile{ID: u.Sub, Email: u.Email, Name: u.Name}, nil
		},
	}
}

// startOAuth pega a /start y devuelve state + cookies del flujo.
func startOAuth(t *testing.T, app *testApp) (state string, cookies []*http.Cookie) {
	t.Helper()
	rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme/start", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state = loc.Query().Get("state")
	require.NotEmpty(t, state)
	require.NotEmpty(t, loc.Query().Get("code_challenge"))

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return state, cookies
}

func TestOAuthSignInEndToEnd(t *testing.T) {
	idp := newFakeIDP(t)
	app := newTestApp(idp.provider())

	state, cookies := startOAuth(t, app)

	rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme?code=C&state="+url.QueryEscape(state), nil), cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	sess := cookieByName(rec, app.sessions.CookieName())
	require.NotNil(t, sess, "callback exitoso debe abrir sesión")
	require.NotEmpty(t, sess.Value)
	assert.True(t, sess.HttpOnly)

	// el usuario quedó resuelto y la sesión lo referencia
	me := app.do(httptest.NewRequest("GET", "/v1/me", nil), sess)
	require.Equal(t, http.StatusOK, me.Code)
	body := decodeBody[struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}](me)
	assert.Equal(t, "maria@example.com", body.Email)
	assert.Equal(t, "María", body.Name)
}

func TestOAuthRepeatSignInMapsToSameUser(t *testing.T) {
	idp := newFakeIDP(t)
	app := newTestApp(idp.provider())

	var ids []string
	for i := 0; i < 2; i++ {
		state, cookies := startOAuth(t, app)
		rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme?code=C&state="+url.QueryEscape(state), nil), cookies...)
		require.Equal(t, http.StatusFound, rec.Code)

		sess := cookieByName(rec, app.sessions.CookieName())
		require.NotNil(t, sess)
		me := app.do(httptest.NewRequest("GET", "/v1/me", nil), sess)
		require.Equal(t, http.StatusOK, me.Code)
		ids = append(ids, decodeBody[struct {
			ID string `json:"id"`
		}](me).ID)
	}
	assert.Equal(t, ids[0], ids[1], "misma identidad externa, mismo usuario interno")
}

func TestOAuthCallbackRejectsForgedState(t *testing.T) {
	idp := newFakeIDP(t)
	app := newTestApp(idp.provider())

	_, cookies := startOAuth(t, app)

	rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme?code=C&state=forged", nil), cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, wantErrorRedirect, rec.Header().Get("Location"))
	assert.Nil(t, cookieByName(rec, app.sessions.CookieName()))
}

func TestOAuthCallbackOnProviderError(t *testing.T) {
	idp := newFakeIDP(t)
	app := newTestApp(idp.provider())

	rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme?error=access_denied", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, wantErrorRedirect, rec.Header().Get("Location"))
}

func TestOAuthCallbackOnBadTokenResponse(t *testing.T) {
	idp := newFakeIDP(t)
	idp.tokenBody = map[string]any{"token_type": "Bearer"} // sin access_token
	app := newTestApp(idp.provider())

	state, cookies := startOAuth(t, app)
	rec := app.do(httptest.NewRequest("GET", "/api/oauth/acme?code=C&state="+url.QueryEscape(state), nil), cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, wantErrorRedirect, rec.Header().Get("Location"))
}

func TestOAuthStartUnknownProvider(t *testing.T) {
	app := newTestApp()
	rec := app.do(httptest.NewRequest("GET", "/api/oauth/nope/start", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, wantErrorRedirect, rec.Header().Get("Location"))
}
