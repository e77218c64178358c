package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/config"
	"github.com/sicea/console/internal/logging"
	"github.com/sicea/console/internal/server"
	"github.com/sicea/console/internal/session"
	"github.com/sicea/console/internal/upload"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()
	cfg := config.Load()

	store, err := session.Open(cfg.SessionDSN)
	if err != nil {
		slog.Error("session store", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.APIBaseURL)
	sessions := session.NewManager(store, client, cfg.SessionSecret)
	batches := upload.NewManager(filepath.Join(os.TempDir(), "sicea-uploads"))

	handler := server.New(server.Deps{
		API:      client,
		Sessions: sessions,
		Batches:  batches,
		Store:    store,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		slog.Info("console listening", "addr", srv.Addr, "env", cfg.Env, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
