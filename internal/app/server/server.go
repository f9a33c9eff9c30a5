package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/lookup"
	"timetrack/internal/domain/report"
	"timetrack/internal/domain/request"
	"timetrack/internal/domain/tracking"
	"timetrack/internal/domain/user"
	"timetrack/internal/platform/config"
	"timetrack/internal/platform/jsonstore"
	"timetrack/internal/platform/metrics"
	authhandler "timetrack/internal/transport/http/handlers/auth"
	employeehandler "timetrack/internal/transport/http/handlers/employees"
	lookuphandler "timetrack/internal/transport/http/handlers/lookups"
	reporthandler "timetrack/internal/transport/http/handlers/reports"
	requesthandler "timetrack/internal/transport/http/handlers/requests"
	trackinghandler "timetrack/internal/transport/http/handlers/tracking"
	userhandler "timetrack/internal/transport/http/handlers/users"
	"timetrack/internal/transport/http/middleware"
)

// App wires stores, services and HTTP routes together. Tests construct it
// directly with a throwaway data directory.
type App struct {
	Config config.Config
	Router http.Handler

	Users    *user.Service
	Tracking *tracking.Service
	Requests *request.Service
}

func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	userStore := user.NewStore(filepath.Join(cfg.DataDir, "users.json"))
	employeeStore := employee.NewStore(filepath.Join(cfg.DataDir, "employees.json"))
	entryStore := tracking.NewStore(filepath.Join(cfg.DataDir, "timeEntries.json"))
	requestStore := request.NewStore(filepath.Join(cfg.DataDir, "changeRequests.json"))
	departments := jsonstore.New[lookup.Item](filepath.Join(cfg.DataDir, "departments.json"))
	positions := jsonstore.New[lookup.Item](filepath.Join(cfg.DataDir, "positions.json"))

	userSvc := user.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)
	trackingSvc := tracking.NewService(entryStore)
	requestSvc := request.NewService(requestStore, entryStore)
	employeeSvc := employee.NewService(employeeStore, userSvc, entryStore, requestStore)
	reportSvc := report.NewService(employeeStore, userStore, entryStore)
	lookupSvc := lookup.NewService(departments, positions)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.LimitBody(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(userSvc).RegisterRoutes(r)
		userhandler.NewHandler(userSvc).RegisterRoutes(r)
		employeehandler.NewHandler(employeeSvc).RegisterRoutes(r)
		trackinghandler.NewHandler(trackingSvc, employeeSvc).RegisterRoutes(r)
		requesthandler.NewHandler(requestSvc, employeeSvc).RegisterRoutes(r)
		reporthandler.NewHandler(reportSvc).RegisterRoutes(r)
		lookuphandler.NewHandler(lookupSvc).RegisterRoutes(r)
	})

	return &App{
		Config:   cfg,
		Router:   router,
		Users:    userSvc,
		Tracking: trackingSvc,
		Requests: requestSvc,
	}, nil
}
