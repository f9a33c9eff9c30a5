package requesthandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/request"
	"timetrack/internal/domain/user"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Requests  *request.Service
	Employees *employee.Service
}

func NewHandler(requests *request.Service, employees *employee.Service) *Handler {
	return &Handler{Requests: requests, Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/requests", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/review", h.handleReview)
	})
}

// handleList serves the pending queue to admins and the caller's own
// history to employees.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	if identity.Role == string(user.RoleAdmin) {
		pending, err := h.Requests.ListPending(r.Context())
		if err != nil {
			api.FailErr(w, err, reqID)
			return
		}
		api.Success(w, map[string]any{"requests": pending}, reqID)
		return
	}

	profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	own, err := h.Requests.ListForEmployee(r.Context(), profile.ID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"requests": own}, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	var payload struct {
		Type    request.Type    `json:"type"`
		Payload request.Payload `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	created, err := h.Requests.Create(r.Context(), profile.ID, payload.Type, payload.Payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"request": created}, reqID)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload struct {
		RequestID     string         `json:"requestId"`
		Action        request.Action `json:"action"`
		ReviewComment string         `json:"reviewComment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	reviewed, err := h.Requests.Review(r.Context(), identity.UserID, user.Role(identity.Role), payload.RequestID, payload.Action, payload.ReviewComment)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"request": reviewed}, reqID)
}
