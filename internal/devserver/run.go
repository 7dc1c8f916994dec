package devserver

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rm-Shayan/finetech-frontened/internal/config"
	"github.com/rm-Shayan/finetech-frontened/internal/logger"
)

// Run starts a seeded development backend and blocks until shutdown or error.
func Run() error {
	log := logger.New("complaint-devserver")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if lvl, err := cfg.Level(); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.IsProduction() {
		log.Warn().Msg("The development backend stores passwords in memory; do not expose it")
	}

	srv := New(Options{
		JWTSecret:  cfg.DevJWTSecret,
		AccessTTL:  cfg.DevTokenTTL,
		RefreshTTL: cfg.DevRefreshTTL,
	})
	demo, err := srv.Store().SeedDemo()
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to seed demo data")
		return err
	}
	log.Info().
		Str("addr", cfg.DevAddr).
		Str("api_prefix", APIPrefix).
		Dur("access_ttl", cfg.DevTokenTTL).
		Dur("refresh_ttl", cfg.DevRefreshTTL).
		Str("customer", demo.Customer.Email).
		Str("officer", demo.Officer.Email).
		Str("admin", demo.Admin.Email).
		Str("password", DemoPassword).
		Msg("Complaint devserver starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.DevAddr,
		Handler:           srv.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}
