package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"meetings-api/internal/config"
	"meetings-api/internal/handler"
	"meetings-api/internal/middleware"
	"meetings-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run owns the store for the life of the process so it is released on every return path.
func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer func() {
		st.Close()
		log.Info("database disconnected")
	}()
	log.Info("connected to database", "driver", st.Driver())

	if err := st.Migrate(ctx); err != nil {
		log.Warn("migration failed", "error", err)
	} else {
		log.Info("migrations applied")
	}

	var limiter *middleware.RateLimiter
	if cfg.WriteRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.WriteRateLimit, cfg.WriteRateBurst)
		defer limiter.Close()
	}

	h := handler.New(st, log)
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.NewRouter(h, handler.RouterOptions{
			Logger:       log,
			WriteLimiter: limiter,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
		log.Info("try", "url", fmt.Sprintf("http://localhost:%d/hello?name=testName", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// in-flight requests are not drained
	log.Info("shutting down")
	return srv.Close()
}
