package organizations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"projecthub/internal/engine/membership"
	"projecthub/internal/engine/ownership"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/pkg/slug"
	"projecthub/internal/pkg/validator"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

// maxSlugAttempts bounds the acme, acme-1, acme-2... probe.
const maxSlugAttempts = 100

type CreateInput struct {
	Name         string
	Description  string
	ContactEmail string
}

type Service struct {
	repo     *repositories.OrganizationRepository
	members  *membership.Registry
	resolver *ownership.Resolver
}

func NewService(repo *repositories.OrganizationRepository, members *membership.Registry, resolver *ownership.Resolver) *Service {
	return &Service{repo: repo, members: members, resolver: resolver}
}

// Create stores the organization with a unique slug and makes the actor its owner. The
// organization and the owner membership are committed together or not at all.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("Organization name is required")
	}

	contact := validator.NormalizeEmail(in.ContactEmail)
	if contact != "" && !validator.IsEmail(contact) {
		return nil, apperrors.Validation("A valid email address is required")
	}

	now := time.Now().Unix()
	org := &models.Organization{
		ID:           "org_" + uuid.NewString(),
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		ContactEmail: contact,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	base := slug.Make(name)
	for n := 0; n < maxSlugAttempts; n++ {
		org.Slug = slug.Candidate(base, n)

		created, err := s.createWithOwner(ctx, org, actor.UserID)
		if err != nil {
			return nil, err
		}
		if created {
			metrics.OrganizationsCreated.Inc()
			log.Info().Str("org_id", org.ID).Str("slug", org.Slug).Str("owner", actor.UserID).Msg("organization created")
			return org, nil
		}
	}

	return nil, fmt.Errorf("create organization: no free slug for %q after %d attempts", base, maxSlugAttempts)
}

// createWithOwner returns false when the slug is taken so the caller can try the next one.
func (s *Service) createWithOwner(ctx context.Context, org *models.Organization, ownerID string) (bool, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.CreateTx(ctx, tx, org); err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert organization: %w", err)
	}

	if _, err := s.members.CreateTx(ctx, tx, ownerID, org.ID, models.RoleOwner); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit organization: %w", err)
	}
	return true, nil
}

// Get returns any active organization to an authenticated caller.
func (s *Service) Get(ctx context.Context, actor auth.Identity, orgID string) (*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	return s.resolver.ResolveOrganization(ctx, orgID)
}

// ListForMember returns the active organizations the actor belongs to.
func (s *Service) ListForMember(ctx context.Context, actor auth.Identity) ([]*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	orgs, err := s.repo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Memberships returns the actor's own memberships, one per active organization.
func (s *Service) Memberships(ctx context.Context, actor auth.Identity) ([]*models.Membership, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	return s.members.OrganizationsFor(ctx, actor.UserID)
}

// Members lists the organization's memberships. Only members may see them.
func (s *Service) Members(ctx context.Context, actor auth.Identity, orgID string) ([]*models.Membership, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	if _, err := s.resolver.ResolveOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	isMember, err := s.members.IsMember(ctx, actor.UserID, orgID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		metrics.AuthorizationDenials.WithLabelValues("organization").Inc()
		return nil, apperrors.AccessDenied("Access denied to this organization")
	}

	return s.members.Members(ctx, orgID)
}

// Deactivate hides the organization from every listing and lookup. Owners only.
func (s *Service) Deactivate(ctx context.Context, actor auth.Identity, orgID string) (*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	org, err := s.resolver.ResolveOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.members.HasRole(ctx, actor.UserID, orgID, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		metrics.AuthorizationDenials.WithLabelValues("organization").Inc()
		return nil, apperrors.PermissionDenied("Only organization owners can deactivate the organization")
	}

	now := time.Now().Unix()
	if err := s.repo.Deactivate(ctx, orgID, now); err != nil {
		return nil, fmt.Errorf("deactivate organization: %w", err)
	}

	org.IsActive = false
	org.UpdatedAt = now
	log.Info().Str("org_id", orgID).Str("by", actor.UserID).Msg("organization deactivated")
	return org, nil
}
