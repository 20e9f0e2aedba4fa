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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"projecthub/internal/engine/invites"
	"projecthub/internal/engine/membership"
	"projecthub/internal/engine/ownership"
	"projecthub/internal/pkg/logger"
	"projecthub/internal/platform/config"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/notify"
	"projecthub/internal/platform/repositories"
	"projecthub/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("worker exited")
	}
}

func run(configPath string) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logging)
	log.Info().Msg("starting projecthub workers")

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	orgRepo := repositories.NewOrganizationRepository(db)
	resolver := ownership.NewResolver(orgRepo, repositories.NewProjectRepository(db), repositories.NewTaskRepository(db))
	members := membership.NewRegistry(repositories.NewMembershipRepository(db))
	ledger := invites.NewLedger(repositories.NewInviteRepository(db), members, resolver, notify.LogNotifier{},
		cfg.Email.FrontendURL, invites.WithTTL(cfg.Invites.TTL))

	sweeper := workers.NewSweeper(ledger, orgRepo, workers.WithSchedule(cfg.Worker.InviteSweepSchedule))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sweeper.RunOnce(ctx); err != nil {
		log.Warn().Err(err).Msg("initial invite sweep failed")
	}
	if err := sweeper.Start(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Worker.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", metricsSrv.Addr).Msg("worker metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("worker metrics server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("stopping workers")

	<-sweeper.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return metricsSrv.Shutdown(shutdownCtx)
}
