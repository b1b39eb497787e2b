package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warelog/scanpost/config"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("configPath"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			slog.Error("load config", "error", err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}

	st := newMemStore()
	srv := &http.Server{
		Addr:    cfg.Emulator.HTTPAddr,
		Handler: newRouter(cfg.Emulator.Secret, st),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("scan-emulator listening", "addr", cfg.Emulator.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("serve", "error", err.Error())
		os.Exit(1)
	}
}
