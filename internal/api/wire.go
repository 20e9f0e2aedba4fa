package api

import (
	"projecthub/internal/api/handlers"
	"projecthub/internal/api/middleware"
	"projecthub/internal/api/schema"
	"projecthub/internal/engine/accounts"
	"projecthub/internal/engine/invites"
	"projecthub/internal/engine/membership"
	"projecthub/internal/engine/organizations"
	"projecthub/internal/engine/ownership"
	"projecthub/internal/engine/projects"
	"projecthub/internal/engine/tasks"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/config"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/notify"
	"projecthub/internal/platform/repositories"
)

// Build wires repositories, services and handlers over db.
func Build(cfg *config.Config, db *database.DB, notifier notify.Notifier) (*Dependencies, error) {
	// Repositories
	orgRepo := repositories.NewOrganizationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	memberRepo := repositories.NewMembershipRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	accountSvc := accounts.NewService(userRepo, tokenSvc)
	members := membership.NewRegistry(memberRepo)
	resolver := ownership.NewResolver(orgRepo, projectRepo, taskRepo)
	ledger := invites.NewLedger(inviteRepo, members, resolver, notifier, cfg.Email.FrontendURL,
		invites.WithTTL(cfg.Invites.TTL))

	s, err := schema.New(schema.Services{
		Accounts:      accountSvc,
		Organizations: organizations.NewService(orgRepo, members, resolver),
		Invites:       ledger,
		Projects:      projects.NewService(projectRepo, resolver),
		Tasks:         tasks.NewService(taskRepo, commentRepo, resolver),
	})
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		AuthHandler:    handlers.NewAuthHandler(accountSvc),
		GraphQLHandler: handlers.NewGraphQLHandler(s),
		InviteHandler:  handlers.NewInviteHandler(ledger),
		HealthHandler:  handlers.NewHealthHandler(db),
		MetricsHandler: handlers.NewMetricsHandler(),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit),
	}, nil
}
