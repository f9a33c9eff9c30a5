package lookuphandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/lookup"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Lookups *lookup.Service
}

func NewHandler(lookups *lookup.Service) *Handler {
	return &Handler{Lookups: lookups}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/lookups", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
		r.Post("/", h.handleAdd)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	lists, err := h.Lookups.List(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, lists, reqID)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	var (
		item lookup.Item
		err  error
	)
	switch payload.Kind {
	case "department":
		item, err = h.Lookups.AddDepartment(r.Context(), payload.Name)
	case "position":
		item, err = h.Lookups.AddPosition(r.Context(), payload.Name)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "kind must be department or position", reqID)
		return
	}
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"item": item}, reqID)
}
