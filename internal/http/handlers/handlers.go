// Package handlers contiene los endpoints HTTP de centavo.
package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/centavo/internal/oauth"
	"github.com/dropDatabas3/centavo/internal/session"
	"github.com/dropDatabas3/centavo/internal/store"
)

// UserStore es lo que los handlers necesitan de la base. *store.Store lo
// implementa; los tests usan un fake en memoria.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, name, email string, passwordHash *string) (uuid.UUID, error)
	ResolveOAuthUser(ctx context.Context, p oauth.Profile, provider string) (uuid.UUID, error)
}

// Handlers agrupa las dependencias compartidas por todos los endpoints.
type Handlers struct {
	Users    UserStore
	Sessions *session.Manager
	OAuth    *oauth.Client
}

func New(users UserStore, sessions *session.Manager, oc *oauth.Client) *Handlers {
	return &Handlers{Users: users, Sessions: sessions, OAuth: oc}
}

var (
	signInsOnce  sync.Once
	signInsTotal *prometheus.CounterVec
)

// observeSignIn cuenta un intento de login resuelto.
// method: password|google|github; result: ok|error
func observeSignIn(method, result string) {
	signInsOnce.Do(func() {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sign_ins_total",
			Help: "Inicios de sesión por método y resultado",
		}, []string{"method", "result"})
		if err := prometheus.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				c = are.ExistingCollector.(*prometheus.CounterVec)
			} else {
				return
			}
		}
		signInsTotal = c
	})
	if signInsTotal != nil {
		signInsTotal.WithLabelValues(method, result).Inc()
	}
}
