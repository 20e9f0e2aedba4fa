package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"projecthub/internal/api"
	"projecthub/internal/api/middleware"
	"projecthub/internal/pkg/logger"
	"projecthub/internal/platform/config"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/notify"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(configPath string) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logging)

	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	notifier, err := notify.New(cfg.Email)
	if err != nil {
		return fmt.Errorf("configure email: %w", err)
	}

	deps, err := api.Build(cfg, db, notifier)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	go deps.RateLimiter.Run(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.Logging(log.Logger, api.NewRouter(deps)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", db.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
