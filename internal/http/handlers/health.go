package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/centavo/internal/cache"
	"github.com/dropDatabas3/centavo/internal/http/httpx"
)

// Pinger cubre al store (pgx) para readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health expone /healthz y /readyz.
type Health struct {
	DB    Pinger
	Cache cache.Client
}

// Healthz: liveness, siempre 200 si el proceso atiende.
func (h *Health) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz: verifica las dependencias con un timeout corto.
func (h *Health) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"db": "ok", "cache": "ok"}
	status := http.StatusOK

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	httpx.WriteJSON(w, status, checks)
}
