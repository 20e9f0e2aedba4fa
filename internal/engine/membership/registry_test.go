package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/database/testutil"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

func setup(t *testing.T) (*Registry, *database.DB) {
	db := testutil.NewDB(t)
	now := time.Now().Unix()
	require.NoError(t, repositories.NewOrganizationRepository(db).Create(context.Background(), &models.Organization{
		ID: "org_a", Name: "A", Slug: "a", IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	return NewRegistry(repositories.NewMembershipRepository(db)), db
}

func TestRoleLookup(t *testing.T) {
	ctx := context.Background()
	reg, db := setup(t)
	owner := testutil.SeedUser(t, db, "owner")
	admin := testutil.SeedUser(t, db, "admin")
	outsider := testutil.SeedUser(t, db, "outsider")

	_, err := reg.Create(ctx, owner, "org_a", models.RoleOwner)
	require.NoError(t, err)
	_, err = reg.Create(ctx, admin, "org_a", models.RoleAdmin)
	require.NoError(t, err)

	role, err := reg.GetRole(ctx, owner, "org_a")
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, role)

	_, err = reg.GetRole(ctx, outsider, "org_a")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	tests := []struct {
		user     string
		required models.Role
		want     bool
	}{
		{owner, models.RoleOwner, true},
		{owner, models.RoleMember, true},
		{admin, models.RoleOwner, false},
		{admin, models.RoleAdmin, true},
		{outsider, models.RoleMember, false},
	}
	for _, tt := range tests {
		got, err := reg.HasRole(ctx, tt.user, "org_a", tt.required)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "user %s required %s", tt.user, tt.required)
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	reg, db := setup(t)
	user := testutil.SeedUser(t, db, "alice")

	_, err := reg.Create(ctx, user, "org_a", models.RoleMember)
	require.NoError(t, err)

	_, err = reg.Create(ctx, user, "org_a", models.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrDuplicateMembership)

	role, err := reg.GetRole(ctx, user, "org_a")
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, role)
}

func TestOrganizationsForSkipsInactive(t *testing.T) {
	ctx := context.Background()
	reg, db := setup(t)
	user := testutil.SeedUser(t, db, "alice")

	orgs := repositories.NewOrganizationRepository(db)
	now := time.Now().Unix()
	require.NoError(t, orgs.Create(ctx, &models.Organization{
		ID: "org_b", Name: "B", Slug: "b", IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := reg.Create(ctx, user, "org_a", models.RoleOwner)
	require.NoError(t, err)
	_, err = reg.Create(ctx, user, "org_b", models.RoleMember)
	require.NoError(t, err)

	memberships, err := reg.OrganizationsFor(ctx, user)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	require.NoError(t, orgs.Deactivate(ctx, "org_b", now))

	memberships, err = reg.OrganizationsFor(ctx, user)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, "org_a", memberships[0].OrganizationID)
	require.Equal(t, models.RoleOwner, memberships[0].Role)

	memberships, err = reg.OrganizationsFor(ctx, "usr_nobody")
	require.NoError(t, err)
	require.Empty(t, memberships)
}
