package employeehandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/schedule"
	"timetrack/internal/domain/user"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Employees *employee.Service
}

func NewHandler(employees *employee.Service) *Handler {
	return &Handler{Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{employeeID}/schedule", h.handleReplaceSchedule)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	rows, err := h.Employees.List(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"rows": rows}, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employee.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	account, profile, err := h.Employees.Create(r.Context(), payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"user": account.Public(), "employee": profile}, reqID)
}

func (h *Handler) handleReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload schedule.WorkSchedule
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Employees.ReplaceSchedule(r.Context(), employeeID, payload)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"employee": updated}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Employees.DeleteCascade(r.Context(), user.Role(identity.Role), employeeID); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}
