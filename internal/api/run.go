package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nick-skriabin/readtime/internal/config"
	"github.com/nick-skriabin/readtime/internal/session"
)

// Run wires a session store to an HTTP server and blocks until ctx is
// cancelled or the listener fails.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store := session.NewStore(cfg.SessionTTL, cfg.Debounce, log)
	store.Start(ctx)

	srv := NewServer(store, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Stop()
	}()

	log.Info("starting readtime", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
