package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/centavo/internal/cache"
	"github.com/dropDatabas3/centavo/internal/session"
)

func newGate(t *testing.T) (*session.Manager, http.Handler) {
	t.Helper()
	mgr := session.NewManager(cache.NewMemory("t"), session.Config{})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User", UserIDFrom(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return mgr, Chain(inner, WithSessionGate(mgr))
}

func signIn(t *testing.T, mgr *session.Manager) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := mgr.Create(context.Background(), rec, "user-42")
	require.NoError(t, err)
	require.NotEmpty(t, rec.Result().Cookies())
	return rec.Result().Cookies()[0]
}

func TestGateRedirectsAnonToSignIn(t *testing.T) {
	_, gate := newGate(t)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest("GET", "/expenses", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in", rec.Header().Get("Location"))
}

func TestGateClearsDeadCookie(t *testing.T) {
	mgr, gate := newGate(t)

	req := httptest.NewRequest("GET", "/expenses", nil)
	req.AddCookie(&http.Cookie{Name: mgr.CookieName(), Value: "stale-session-id"})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, mgr.CookieName(), cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestGateAllowsPublicPaths(t *testing.T) {
	_, gate := newGate(t)

	for _, path := range []string{"/sign-in", "/sign-up", "/api/oauth/google/start", "/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGateRedirectsAuthedAwayFromPublicOnly(t *testing.T) {
	mgr, gate := newGate(t)
	ck := signIn(t, mgr)

	for _, path := range []string{"/", "/sign-in", "/sign-up"} {
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(ck)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code, path)
		require.Equal(t, "/user-42", rec.Header().Get("Location"), path)
	}
}

func TestGatePassesAuthedWithUserInContext(t *testing.T) {
	mgr, gate := newGate(t)
	ck := signIn(t, mgr)

	req := httptest.NewRequest("GET", "/expenses", nil)
	req.AddCookie(ck)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", rec.Header().Get("X-User"))
	// expiración deslizante: la cookie se re-emite en cada request protegida
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestGateTreatsBackendErrorAsAnon(t *testing.T) {
	mgr := session.NewManager(brokenCache{}, session.Config{})
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	gate := Chain(inner, WithSessionGate(mgr))

	req := httptest.NewRequest("GET", "/expenses", nil)
	req.AddCookie(&http.Cookie{Name: mgr.CookieName(), Value: "whatever"})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in", rec.Header().Get("Location"))
}

// brokenCache simula un backend caído.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("backend down")
}
func (brokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("backend down")
}
func (brokenCache) Delete(ctx context.Context, key string) error { return errors.New("backend down") }
func (brokenCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("backend down")
}
func (brokenCache) Ping(ctx context.Context) error { return errors.New("backend down") }
func (brokenCache) Close() error                   { return nil }
