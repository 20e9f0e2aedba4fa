package organizations

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"projecthub/internal/engine/membership"
	"projecthub/internal/engine/ownership"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/database/testutil"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

func newService(db *database.DB) (*Service, *membership.Registry) {
	orgs := repositories.NewOrganizationRepository(db)
	members := membership.NewRegistry(repositories.NewMembershipRepository(db))
	resolver := ownership.NewResolver(orgs, repositories.NewProjectRepository(db), repositories.NewTaskRepository(db))
	return NewService(orgs, members, resolver), members
}

func TestCreateMakesCreatorOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc, members := newService(db)
	alice := auth.Identity{UserID: testutil.SeedUser(t, db, "alice"), Username: "alice"}

	org, err := svc.Create(ctx, alice, CreateInput{Name: "  Acme  ", Description: "Rockets"})
	require.NoError(t, err)
	require.Equal(t, "Acme", org.Name)
	require.Equal(t, "acme", org.Slug)
	require.True(t, org.IsActive)

	role, err := members.GetRole(ctx, alice.UserID, org.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleOwner, role)

	listed, err := svc.ListForMember(ctx, alice)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCreateDisambiguatesSlugs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc, _ := newService(db)
	alice := auth.Identity{UserID: testutil.SeedUser(t, db, "alice")}
	bob := auth.Identity{UserID: testutil.SeedUser(t, db, "bob")}

	first, err := svc.Create(ctx, alice, CreateInput{Name: "Acme"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, bob, CreateInput{Name: "Acme"})
	require.NoError(t, err)
	third, err := svc.Create(ctx, bob, CreateInput{Name: "ACME!"})
	require.NoError(t, err)

	require.Equal(t, "acme", first.Slug)
	require.Equal(t, "acme-1", second.Slug)
	require.Equal(t, "acme-2", third.Slug)
}

func TestConcurrentCreatesGetDistinctSlugs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewPooledDB(t, 10)
	svc, _ := newService(db)

	const creators = 20
	actors := make([]auth.Identity, creators)
	for i := range actors {
		actors[i] = auth.Identity{UserID: testutil.SeedUser(t, db, fmt.Sprintf("user%d", i))}
	}

	var wg sync.WaitGroup
	slugs := make([]string, creators)
	errs := make([]error, creators)
	for i := range actors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			org, err := svc.Create(ctx, actors[i], CreateInput{Name: "Acme"})
			errs[i] = err
			if err == nil {
				slugs[i] = org.Slug
			}
		}(i)
	}
	wg.Wait()

	expected := []string{"acme"}
	for i := 1; i < creators; i++ {
		expected = append(expected, fmt.Sprintf("acme-%d", i))
	}
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.ElementsMatch(t, expected, slugs)
}

func TestCreateRetriesOnSlugConstraintViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	svc, _ := newService(database.New(sqlDB, database.DriverSQLite))
	taken := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO organizations").
		WithArgs(sqlmock.AnyArg(), "Acme", "acme", "", "", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(taken)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO organizations").
		WithArgs(sqlmock.AnyArg(), "Acme", "acme-1", "", "", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO memberships").
		WithArgs(sqlmock.AnyArg(), "usr_1", sqlmock.AnyArg(), "owner", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	org, err := svc.Create(context.Background(), auth.Identity{UserID: "usr_1"}, CreateInput{Name: "Acme"})
	require.NoError(t, err)
	require.Equal(t, "acme-1", org.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc, _ := newService(db)

	_, err := svc.Create(ctx, auth.Identity{}, CreateInput{Name: ""})
	require.EqualError(t, err, apperrors.AuthenticationRequired)

	_, err = svc.Create(ctx, auth.Identity{UserID: "usr_1"}, CreateInput{Name: "   "})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	require.EqualError(t, err, "Organization name is required")
}

func TestMembersAndDeactivate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc, members := newService(db)
	owner := auth.Identity{UserID: testutil.SeedUser(t, db, "owner")}
	member := auth.Identity{UserID: testutil.SeedUser(t, db, "member")}
	stranger := auth.Identity{UserID: testutil.SeedUser(t, db, "stranger")}

	org, err := svc.Create(ctx, owner, CreateInput{Name: "Acme"})
	require.NoError(t, err)
	_, err = members.Create(ctx, member.UserID, org.ID, models.RoleMember)
	require.NoError(t, err)

	list, err := svc.Members(ctx, member, org.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = svc.Members(ctx, stranger, org.ID)
	require.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = svc.Deactivate(ctx, member, org.ID)
	require.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = svc.Deactivate(ctx, owner, org.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner, org.ID)
	require.EqualError(t, err, "Organization not found")

	listed, err := svc.ListForMember(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, listed)
}

