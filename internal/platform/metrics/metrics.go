package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecthub_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	OrganizationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projecthub_organizations_created_total",
			Help: "Total number of organizations created",
		},
	)

	InvitesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projecthub_invites_issued_total",
			Help: "Total number of invites issued",
		},
	)

	// InviteRedemptions counts redemption attempts by outcome (joined|already_member|invalid).
	InviteRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecthub_invite_redemptions_total",
			Help: "Total number of invite redemption attempts",
		},
		[]string{"outcome"},
	)

	// InviteEmails counts notification attempts by result (sent|failed).
	InviteEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecthub_invite_emails_total",
			Help: "Total number of invite notifications attempted",
		},
		[]string{"result"},
	)

	// AuthorizationDenials counts rejected cross-tenant or role checks per resource kind.
	AuthorizationDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecthub_authorization_denials_total",
			Help: "Total number of denied authorization checks",
		},
		[]string{"resource"},
	)

	// InviteLedger is refreshed by the worker sweep (issued|used|expired).
	InviteLedger = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "projecthub_invites",
			Help: "Invites in the ledger by state",
		},
		[]string{"state"},
	)

	ActiveOrganizations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "projecthub_active_organizations",
			Help: "Number of active organizations",
		},
	)

	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projecthub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
