package handlers

import (
	"net/http"

	"github.com/dropDatabas3/centavo/internal/http/httpx"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
)

// AdminPing maneja GET /v1/admin/ping (smoke test de la key).
func (h *Handlers) AdminPing(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AdminRevokeSession maneja DELETE /v1/admin/sessions/{id}: revoca una
// sesión por id. Idempotente, 204 aunque no exista.
func (h *Handlers) AdminRevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "session id required", 1101)
		return
	}
	if err := h.Sessions.Delete(ctx, id); err != nil {
		logger.From(ctx).Error("admin revoke failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}
	logger.From(ctx).Info("session revoked", logger.SessionID(id))
	w.WriteHeader(http.StatusNoContent)
}
