package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/centavo/internal/cache"
	httpserver "github.com/dropDatabas3/centavo/internal/http"
	"github.com/dropDatabas3/centavo/internal/http/handlers"
	"github.com/dropDatabas3/centavo/internal/oauth"
	"github.com/dropDatabas3/centavo/internal/session"
	"github.com/dropDatabas3/centavo/internal/store"
)

const adminKey = "test-admin-key"

// fakeUsers implementa handlers.UserStore en memoria.
type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*store.User
	byEmail map[string]uuid.UUID
	links   map[string]uuid.UUID // provider|provider_user_id
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    map[uuid.UUID]*store.User{},
		byEmail: map[string]uuid.UUID{},
		links:   map[string]uuid.UUID{},
	}
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byEmail[email]; ok {
		cp := *f.byID[id]
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) CreateUser(ctx context.Context, name, email string, passwordHash *string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createLocked(name, email, passwordHash), nil
}

func (f *fakeUsers) createLocked(name, email string, passwordHash *string) uuid.UUID {
	id := uuid.New()
	f.byID[id] = &store.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	f.byEmail[email] = id
	return id
}

func (f *fakeUsers) ResolveOAuthUser(ctx context.Context, p oauth.Profile, provider string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := provider + "|" + p.ID
	if id, ok := f.links[key]; ok {
		return id, nil
	}
	id, ok := f.byEmail[p.Email]
	if !ok {
		id = f.createLocked(p.Name, p.Email, nil)
	}
	f.links[key] = id
	return id, nil
}

// testApp levanta el router completo con backends en memoria.
type testApp struct {
	router   http.Handler
	users    *fakeUsers
	sessions *session.Manager
}

func newTestApp(providers ...*oauth.Provider) *testApp {
	users := newFakeUsers()
	mgr := session.NewManager(cache.NewMemory("t"), session.Config{})
	oc := oauth.NewClient("https://centavo.test/api/oauth", &oauth.CookieFlowStore{}, providers...)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handlers:    handlers.New(users, mgr, oc),
		Health:      &handlers.Health{},
		Sessions:    mgr,
		AdminAPIKey: adminKey,
	})
	return &testApp{router: router, users: users, sessions: mgr}
}

// do ejecuta un request contra el router, propagando cookies dadas.
func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](rec *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(rec.Body.Bytes(), &v)
	return v
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
