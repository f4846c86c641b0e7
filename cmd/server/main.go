package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/authportal/internal/app"
	"github.com/nfrund/authportal/internal/config"
	"github.com/nfrund/authportal/internal/logging"
)

func main() {
	cfg := config.New()
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	injector := app.NewInjector(cfg)
	defer injector.Shutdown()

	s, err := app.Server(injector)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	slog.Info("Using account API", "api_url", cfg.GetAPIBaseURL())
	if err := s.Start(context.Background()); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
