package main

import (
	"log/slog"
	"net/http"
	"os"

	"timetrack/internal/app/server"
	"timetrack/internal/platform/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	app, err := server.New(cfg)
	if err != nil {
		slog.Error("init server", "error", err)
		os.Exit(1)
	}

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
