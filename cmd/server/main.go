package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"printquote/internal/catalog"
	"printquote/internal/config"
	"printquote/internal/db"
	"printquote/internal/quote"
	"printquote/pkg/logger"
)

type server struct {
	engine *quote.Engine
	cfg    config.Config
	log    *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	database, err := db.Open(cfg.CatalogDBPath)
	if err != nil {
		zapLogger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer database.Close()

	tables, err := catalog.Load(database, cfg.ProfileOverridesPath)
	if err != nil {
		zapLogger.Fatal("failed to load profile catalog", zap.Error(err))
	}
	zapLogger.Info("profile catalog loaded",
		zap.Int("materials", len(tables.Materials)),
		zap.Int("machines", len(tables.Machines)),
		zap.String("db", cfg.CatalogDBPath),
	)

	srv := &server{
		engine: quote.NewEngine(tables),
		cfg:    cfg,
		log:    zapLogger,
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown", zap.Error(err))
	}
	zapLogger.Info("server shutdown gracefully")
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	// Mesh parsing is CPU-bound; cap concurrent quote work.
	quoteLimit := limiter(s.cfg.MaxConcurrentQuotes)

	r.Get("/api/health", s.handleHealth)
	r.With(quoteLimit).Post("/api/quote", s.handleQuote)
	r.With(quoteLimit).Post("/api/quote/batch", s.handleBatchQuote)

	return r
}
