package userhandler

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
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Get("/", h.handleList)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequireAuth).Post("/{userID}/password", h.handleChangePassword)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	accounts, err := h.Users.List(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	profiles := make([]user.Profile, 0, len(accounts))
	for _, account := range accounts {
		profiles = append(profiles, account.Public())
	}
	api.Success(w, map[string]any{"users": profiles}, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload user.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	created, err := h.Users.Create(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"user": created.Public()}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload struct {
		FullName   string      `json:"fullName"`
		Position   string      `json:"position"`
		Department string      `json:"department"`
		Status     user.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Users.UpdateProfile(r.Context(), userID, payload.FullName, payload.Position, payload.Department, payload.Status)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"user": updated.Public()}, reqID)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.Users.ChangePassword(r.Context(), user.Role(identity.Role), identity.UserID, userID, payload.NewPassword)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"changed": true}, reqID)
}
