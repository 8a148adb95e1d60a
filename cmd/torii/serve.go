package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/torii/internal/api"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/repository/sqlite"
	"github.com/vytor/torii/internal/services"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Default()

	log.Info("===========================================")
	log.Info("Torii Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("advance_delay=%s", cfg.AdvanceDelay)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("reap_interval=%s", cfg.ReapInterval)
	log.Debug("result_worker_count=%d", cfg.ResultWorkerCount)
	log.Debug("result_queue_size=%d", cfg.ResultQueueSize)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	resultPool := worker.NewPool(cfg.ResultWorkerCount, cfg.ResultQueueSize)
	// Workers outlive the signal context so queued results are still written during shutdown.
	resultPool.Start(context.Background())

	quizzes := services.NewQuizService(st.source, sqlite.NewResultRepository(st.db.DB), resultPool,
		study.WithAdvanceDelay(cfg.AdvanceDelay))
	flashcards := services.NewFlashcardService(st.source, sqlite.NewReviewRepository(st.db.DB))

	srv := &api.Server{
		Notebooks:   st.notebooks,
		Quizzes:     quizzes,
		Flashcards:  flashcards,
		DB:          st.db,
		CORSOrigins: cfg.CORSOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket streams stay open; plain requests are bounded by the router timeout
		IdleTimeout:  60 * time.Second,
	}

	go reapSessions(ctx, cfg.ReapInterval, cfg.SessionTTL, quizzes, flashcards)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing live sessions")
	quizzes.Shutdown(shutdownCtx)
	flashcards.Shutdown(shutdownCtx)

	log.Debug("stopping result pool")
	if err := resultPool.Stop(shutdownCtx); err != nil {
		log.Error("result pool stop error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Torii Server Stopped")
	log.Info("===========================================")
	return nil
}

type reaper interface {
	Reap(ctx context.Context, ttl time.Duration) int
}

// reapSessions closes idle sessions every interval until ctx is done.
func reapSessions(ctx context.Context, interval, ttl time.Duration, reapers ...reaper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, r := range reapers {
				r.Reap(ctx, ttl)
			}
		}
	}
}
