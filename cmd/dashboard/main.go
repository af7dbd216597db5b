package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "carrental-dashboard/internal/api/http"
	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/config"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/session"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting car rental dashboard...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Backend configuration", "base_url", cfg.Backend.BaseURL)
	logger.Info("Session configuration", "path", cfg.Session.Path)

	api := apiclient.NewClient(cfg.Backend.BaseURL)
	sessions := session.NewManager(session.NewFileStore(cfg.Session.Path))

	dashboard, err := httpapi.NewDashboard(api, sessions)
	if err != nil {
		logger.Error("Failed to load templates", "error", err)
		log.Fatalf("Failed to load templates: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           dashboard.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Dashboard listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Dashboard stopped with error", "error", err)
		log.Fatalf("Dashboard error: %v", err)
	}
	logger.Info("Dashboard stopped")
}
