package authhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/user"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Users *user.Service
}

func NewHandler(users *user.Service) *Handler {
	return &Handler{Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/bootstrap", h.handleBootstrap)
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

// handleBootstrap creates the very first admin account. Open on purpose: it
// refuses to run once any user exists.
func (h *Handler) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload user.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	created, err := h.Users.BootstrapAdmin(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"user": created.Public()}, reqID)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	token, account, err := h.Users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"token": token, "user": account.Public()}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	account, err := h.Users.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"user": account.Public()}, reqID)
}
