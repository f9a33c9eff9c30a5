package reporthandler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/report"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Reports *report.Service
}

func NewHandler(reports *report.Service) *Handler {
	return &Handler{Reports: reports}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/admin", h.handleAdmin)
		r.Get("/admin/export.pdf", h.handleExportPDF)
		r.Get("/admin/export.xlsx", h.handleExportXLSX)
	})
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	out, err := h.Reports.Admin(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	out, err := h.Reports.Admin(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	data, err := report.RenderPDF(out)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	serveAttachment(w, data, "application/pdf", fmt.Sprintf("time-report-%s-%s.pdf", out.From, out.To))
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	out, err := h.Reports.Admin(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	data, err := report.RenderXLSX(out)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	serveAttachment(w, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", fmt.Sprintf("time-report-%s-%s.xlsx", out.From, out.To))
}

func serveAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
