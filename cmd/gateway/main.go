package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/btec-grade-calculator/internal/api/http"
	"github.com/mind-engage/btec-grade-calculator/internal/config"
	"github.com/mind-engage/btec-grade-calculator/internal/presets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	// --- Presets (parsed once, read-only afterwards) ---
	tbl, err := presets.LoadFile(cfg.PresetsFile)
	if err != nil {
		log.Error("presets load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if _, ok := tbl.Lookup(cfg.DefaultLevel); !ok {
		log.Warn("default level not in presets", slog.String("level", cfg.DefaultLevel))
	}

	r := api.NewRouter(tbl, log, api.RouterOptions{
		CORSOrigins:    cfg.CORSOrigins(),
		RequestTimeout: cfg.RequestTimeout,
		DefaultLevel:   cfg.DefaultLevel,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", slog.String("addr", cfg.HTTPAddr), slog.String("mode", string(cfg.Mode)),
			slog.String("catalog", tbl.Code), slog.Int("levels", len(tbl.Levels())))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.Any("err", err))
	}
}
