package middlewares

import (
	"context"

	"github.com/dropDatabas3/centavo/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithSession guarda la sesión resuelta en el contexto.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom retorna la sesión del contexto, o nil si no hay.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// UserIDFrom es un atajo para el user id de la sesión en contexto.
func UserIDFrom(ctx context.Context) string {
	if s := SessionFrom(ctx); s != nil {
		return s.UserID
	}
	return ""
}
