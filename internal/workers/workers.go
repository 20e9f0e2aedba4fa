package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/repositories"
)

const defaultSweepSpec = "@every 15m"

// InviteStats is satisfied by invites.Ledger.
type InviteStats interface {
	Stats(ctx context.Context) (repositories.InviteCounts, error)
}

// OrganizationCounter is satisfied by repositories.OrganizationRepository.
type OrganizationCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// Sweeper periodically publishes the invite ledger and organization gauges.
type Sweeper struct {
	invites  InviteStats
	orgs     OrganizationCounter
	cron     *cron.Cron
	schedule string
}

type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

func NewSweeper(invites InviteStats, orgs OrganizationCounter, opts ...Option) *Sweeper {
	s := &Sweeper{
		invites:  invites,
		orgs:     orgs,
		schedule: defaultSweepSpec,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Start registers the sweep and launches the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			log.Warn().Err(err).Msg("invite sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule invite sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Msg("invite sweep scheduled")
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs complete.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce refreshes every gauge, continuing past individual failures.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	var errs error

	counts, err := s.invites.Stats(ctx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		metrics.InviteLedger.WithLabelValues("issued").Set(float64(counts.Issued))
		metrics.InviteLedger.WithLabelValues("used").Set(float64(counts.Used))
		metrics.InviteLedger.WithLabelValues("expired").Set(float64(counts.Expired))
		log.Debug().
			Int("issued", counts.Issued).
			Int("used", counts.Used).
			Int("expired", counts.Expired).
			Msg("invite ledger swept")
	}

	active, err := s.orgs.CountActive(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count organizations: %w", err))
	} else {
		metrics.ActiveOrganizations.Set(float64(active))
	}

	return errs
}
