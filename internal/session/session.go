// Package session implementa sesiones server-side sobre un cache con TTL.
//
// El browser guarda únicamente un id opaco en la cookie; el payload vive del
// lado del servidor bajo "session:<id>". Perder la cookie o el registro
// invalida la sesión de forma independiente, y revocar es un simple delete —
// a diferencia de un token firmado auto-contenido, que no se puede revocar
// antes de su expiración sin una denylist.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/centavo/internal/cache"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
	tokens "github.com/dropDatabas3/centavo/internal/security/token"
)

const (
	keyPrefix         = "session:"
	DefaultCookieName = "session-id"
	DefaultTTL        = 7 * 24 * time.Hour
)

// Session es el registro persistido. Payload mínimo a propósito: el resto del
// usuario se resuelve contra el store cuando hace falta.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// Config de cookies y expiración.
type Config struct {
	CookieName string
	Domain     string
	SameSite   string // "", "lax", "strict", "none"
	Secure     bool
	TTL        time.Duration
}

// Manager gestiona el ciclo de vida de las sesiones.
type Manager struct {
	cache cache.Client
	cfg   Config
}

func NewManager(c cache.Client, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{cache: c, cfg: cfg}
}

// TTL expone la duración configurada (para tests y logs).
func (m *Manager) TTL() time.Duration { return m.cfg.TTL }

// Create genera una sesión nueva para userID, la persiste con TTL y setea la
// cookie en w. Los ids son aleatorios de 32 bytes: colisiones entre creates
// concurrentes tienen probabilidad despreciable, no hace falta locking.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID string) (string, error) {
	id, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Session{ID: id, UserID: userID})
	if err != nil {
		return "", err
	}
	if err := m.cache.Set(ctx, keyPrefix+id, string(payload), m.cfg.TTL); err != nil {
		return "", err
	}
	http.SetCookie(w, m.buildCookie(id, m.cfg.TTL))
	return id, nil
}

// Read busca una sesión por id. Retorna (nil, nil) si no existe o si el
// payload no valida: un registro corrupto o ajeno jamás tumba el gate.
// Un error de backend se reporta como error (el caller decide degradar).
func (m *Manager) Read(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	raw, err := m.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.UserID == "" {
		logger.From(ctx).Warn("session payload rejected", logger.SessionID(id))
		return nil, nil
	}
	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}

// FromRequest resuelve la cookie de sesión del request.
func (m *Manager) FromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	return m.Read(ctx, c.Value)
}

// Refresh reescribe el payload con TTL renovado desde ahora (sliding
// expiration) y re-emite la cookie. Si la sesión no existe, no hace nada.
func (m *Manager) Refresh(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	s, err := m.Read(ctx, c.Value)
	if err != nil || s == nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := m.cache.Set(ctx, keyPrefix+s.ID, string(payload), m.cfg.TTL); err != nil {
		return err
	}
	http.SetCookie(w, m.buildCookie(s.ID, m.cfg.TTL))
	return nil
}

// RefreshExpiry renueva el TTL de una sesión por id, sin tocar cookies.
func (m *Manager) RefreshExpiry(ctx context.Context, id string) error {
	s, err := m.Read(ctx, id)
	if err != nil || s == nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.cache.Set(ctx, keyPrefix+s.ID, string(payload), m.cfg.TTL)
}

// Delete elimina el registro por id. Idempotente.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.cache.Delete(ctx, keyPrefix+id)
}

// Destroy elimina la sesión del request y limpia la cookie del browser.
// Idempotente: un sign-out sin sesión no es un error.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer http.SetCookie(w, m.deletionCookie())
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	return m.Delete(ctx, c.Value)
}

// ClearCookie limpia solo la cookie (para sesiones inválidas detectadas en el gate).
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.deletionCookie())
}

// CookieName expone el nombre configurado.
func (m *Manager) CookieName() string { return m.cfg.CookieName }

func (m *Manager) buildCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.cfg.Domain,
		Expires:  time.Now().UTC().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		Secure:   m.cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(m.cfg.SameSite),
	}
}

func (m *Manager) deletionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   m.cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(m.cfg.SameSite),
	}
}

// parseSameSite convierte el string de config a http.SameSite. Default: Lax.
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
