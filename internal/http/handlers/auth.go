package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/dropDatabas3/centavo/internal/http/httpx"
	"github.com/dropDatabas3/centavo/internal/observability/logger"
	"github.com/dropDatabas3/centavo/internal/security/password"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"user_id"`
}

// SignUp maneja POST /v1/auth/sign-up: alta con credenciales y sesión
// inmediata. Los mensajes de validación son deliberadamente sobrios.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)

	var req signUpRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if len(req.Name) < 2 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_name", "Name is too short", 1201)
		return
	}
	if !strings.Contains(req.Email, "@") {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_email", "Email is invalid", 1202)
		return
	}
	if len(req.Password) < 6 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_password", "Password must be at least 6 characters", 1203)
		return
	}

	if existing, err := h.Users.GetUserByEmail(ctx, req.Email); err != nil {
		log.Error("sign-up lookup failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	} else if existing != nil {
		httpx.WriteError(w, http.StatusConflict, "email_taken", "Email already in use", 1204)
		return
	}

	hash, err := password.Hash(password.Default, req.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}

	userID, err := h.Users.CreateUser(ctx, req.Name, req.Email, &hash)
	if err != nil {
		log.Error("sign-up create failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}

	if _, err := h.Sessions.Create(ctx, w, userID.String()); err != nil {
		log.Error("session create failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}

	log.Info("sign-up ok", logger.UserID(userID.String()))
	httpx.WriteJSON(w, http.StatusCreated, authResponse{UserID: userID.String()})
}

// SignIn maneja POST /v1/auth/sign-in. Todas las variantes de fallo
// (email desconocido, usuario solo-OAuth, password incorrecta) responden
// igual para no filtrar qué cuentas existen.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx)

	fail := func() {
		observeSignIn("password", "error")
		httpx.WriteError(w, http.StatusUnauthorized, "sign_in_failed", "Sign in failed", 1205)
	}

	var req signInRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	u, err := h.Users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		log.Error("sign-in lookup failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}
	if u == nil || u.PasswordHash == nil {
		// se verifica igual un hash dummy para no delatar por timing
		_ = password.Verify(req.Password, dummyPHC())
		fail()
		return
	}

	if !password.Verify(req.Password, *u.PasswordHash) {
		fail()
		return
	}

	if _, err := h.Sessions.Create(ctx, w, u.ID.String()); err != nil {
		log.Error("session create failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "try again later", 1500)
		return
	}

	log.Info("sign-in ok", logger.UserID(u.ID.String()))
	observeSignIn("password", "ok")
	httpx.WriteJSON(w, http.StatusOK, authResponse{UserID: u.ID.String()})
}

var (
	dummyOnce sync.Once
	dummyHash string
)

func dummyPHC() string {
	dummyOnce.Do(func() {
		dummyHash, _ = password.Hash(password.Default, "not-a-real-password")
	})
	return dummyHash
}

// SignOut maneja POST /v1/auth/sign-out. Idempotente.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Sessions.Destroy(ctx, w, r); err != nil {
		logger.From(ctx).Warn("sign-out destroy failed", logger.Err(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
