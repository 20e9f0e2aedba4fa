// Package membership answers who belongs to which organization and with what role.
package membership

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

type Registry struct {
	repo *repositories.MembershipRepository
}

func NewRegistry(repo *repositories.MembershipRepository) *Registry {
	return &Registry{repo: repo}
}

// GetRole returns the caller's role in orgID. Every call reads storage.
func (r *Registry) GetRole(ctx context.Context, userID, orgID string) (models.Role, error) {
	m, err := r.repo.Get(ctx, userID, orgID)
	if err != nil {
		return 0, fmt.Errorf("get membership: %w", err)
	}
	if m == nil {
		return 0, apperrors.NotFound("Membership not found")
	}
	return m.Role, nil
}

// HasRole reports whether userID holds required or a stronger role in orgID. Non-members
// simply do not have the role.
func (r *Registry) HasRole(ctx context.Context, userID, orgID string, required models.Role) (bool, error) {
	m, err := r.repo.Get(ctx, userID, orgID)
	if err != nil {
		return false, fmt.Errorf("get membership: %w", err)
	}
	return m != nil && m.Role.AtLeast(required), nil
}

func (r *Registry) IsMember(ctx context.Context, userID, orgID string) (bool, error) {
	return r.HasRole(ctx, userID, orgID, models.RoleMember)
}

func (r *Registry) Create(ctx context.Context, userID, orgID string, role models.Role) (*models.Membership, error) {
	m := newMembership(userID, orgID, role)
	if err := r.repo.Create(ctx, m); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// CreateTx inserts the membership inside the caller's transaction.
func (r *Registry) CreateTx(ctx context.Context, tx *sql.Tx, userID, orgID string, role models.Role) (*models.Membership, error) {
	m := newMembership(userID, orgID, role)
	if err := r.repo.CreateTx(ctx, tx, m); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (r *Registry) Members(ctx context.Context, orgID string) ([]*models.Membership, error) {
	members, err := r.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// OrganizationsFor returns userID's memberships in active organizations.
func (r *Registry) OrganizationsFor(ctx context.Context, userID string) ([]*models.Membership, error) {
	memberships, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return memberships, nil
}

func newMembership(userID, orgID string, role models.Role) *models.Membership {
	return &models.Membership{
		ID:             "mem_" + uuid.NewString(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().Unix(),
	}
}

func translate(err error) error {
	if database.IsUniqueViolation(err) {
		return apperrors.DuplicateMembership("User is already a member of this organization")
	}
	return fmt.Errorf("create membership: %w", err)
}
