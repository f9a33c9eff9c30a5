package trackinghandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/tracking"
	"timetrack/internal/domain/user"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Tracking  *tracking.Service
	Employees *employee.Service
}

func NewHandler(trackingSvc *tracking.Service, employees *employee.Service) *Handler {
	return &Handler{Tracking: trackingSvc, Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Post("/timer/start", h.handleStart)
	r.With(middleware.RequireAuth).Post("/timer/stop", h.handleStop)
	r.With(middleware.RequireAuth).Get("/time-entries", h.handleDayEntries)
	r.With(middleware.RequireAuth).Get("/timesheets", h.handleTimesheet)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	entry, err := h.Tracking.StartWork(r.Context(), profile.ID, time.Now())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{"entry": entry}, reqID)
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	entry, err := h.Tracking.StopWork(r.Context(), profile.ID, time.Now())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"entry": entry}, reqID)
}

func (h *Handler) handleDayEntries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	entries, err := h.Tracking.DayEntries(r.Context(), profile.ID, r.URL.Query().Get("date"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"entries": entries}, reqID)
}

// handleTimesheet serves the caller's own timesheet; an admin may pass
// employeeId to read someone else's.
func (h *Handler) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if identity.Role != string(user.RoleAdmin) || employeeID == "" {
		profile, err := h.Employees.GetForUser(r.Context(), identity.UserID)
		if err != nil {
			api.FailErr(w, err, reqID)
			return
		}
		employeeID = profile.ID
	}

	sheet, err := h.Tracking.Timesheet(r.Context(), employeeID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, sheet, reqID)
}
