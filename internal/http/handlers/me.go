package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/centavo/internal/http/httpx"
	"github.com/dropDatabas3/centavo/internal/http/middlewares"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
)

type meResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Me maneja GET /v1/me: el perfil del usuario autenticado.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := middlewares.UserIDFrom(ctx)
	id, err := uuid.Parse(uid)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "no session", 1401)
		return
	}

	u, err := h.Users.GetUserByID(ctx, id)
	if err != nil {
		logger.From(ctx).Error("me lookup failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}
	if u == nil {
		// sesión viva para un usuario borrado: se invalida acá
		h.Sessions.ClearCookie(w)
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "user gone", 1401)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email})
}
