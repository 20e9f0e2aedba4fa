package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projecthub/internal/engine/ownership"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/database/testutil"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

var alice = auth.Identity{UserID: "usr_alice", Username: "alice"}

func setup(t *testing.T) (*Service, *repositories.TaskRepository) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	orgs := repositories.NewOrganizationRepository(db)
	now := time.Now().Unix()
	for _, id := range []string{"org_a", "org_b"} {
		require.NoError(t, orgs.Create(ctx, &models.Organization{ID: id, Name: id, Slug: id, IsActive: true, CreatedAt: now, UpdatedAt: now}))
	}

	projects := repositories.NewProjectRepository(db)
	tasks := repositories.NewTaskRepository(db)
	return NewService(projects, ownership.NewResolver(orgs, projects, tasks)), tasks
}

func strPtr(s string) *string { return &s }

func TestCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	project, err := svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: "Launch", DueDate: strPtr("2026-12-01")})
	require.NoError(t, err)
	require.Equal(t, models.ProjectPlanning, project.Status)
	require.Equal(t, "2026-12-01", *project.DueDate)

	updated, err := svc.Update(ctx, alice, project.ID, "org_a", UpdateInput{Status: strPtr("ACTIVE"), DueDate: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, models.ProjectActive, updated.Status)
	require.Nil(t, updated.DueDate)
	require.Equal(t, "Launch", updated.Name)

	listed, err := svc.List(ctx, alice, "org_a")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = svc.List(ctx, alice, "org_b")
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestValidationMessages(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	_, err := svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: " "})
	require.EqualError(t, err, "Project name is required")

	_, err = svc.Create(ctx, alice, CreateInput{OrganizationID: "org_missing", Name: "X"})
	require.EqualError(t, err, "Organization not found")

	_, err = svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: "X", DueDate: strPtr("12/01/2026")})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	project, err := svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: "X"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice, project.ID, "org_a", UpdateInput{Name: strPtr("")})
	require.EqualError(t, err, "Project name cannot be empty")

	_, err = svc.Update(ctx, alice, project.ID, "org_a", UpdateInput{Status: strPtr("DONE")})
	require.EqualError(t, err, "Invalid status: DONE")

	_, err = svc.Create(ctx, auth.Identity{}, CreateInput{OrganizationID: "org_a", Name: ""})
	require.EqualError(t, err, apperrors.AuthenticationRequired)
}

func TestCrossTenantAccessDenied(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	project, err := svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: "Secret"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, alice, project.ID, "org_b")
	require.ErrorIs(t, err, apperrors.ErrAccessDenied)
	require.EqualError(t, err, "Access denied to this project")

	_, err = svc.Update(ctx, alice, project.ID, "org_b", UpdateInput{Name: strPtr("Mine now")})
	require.ErrorIs(t, err, apperrors.ErrAccessDenied)

	got, err := svc.Get(ctx, alice, project.ID, "org_a")
	require.NoError(t, err)
	require.Equal(t, "Secret", got.Name)
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	svc, tasks := setup(t)

	project, err := svc.Create(ctx, alice, CreateInput{OrganizationID: "org_a", Name: "Stats"})
	require.NoError(t, err)

	now := time.Now().Unix()
	for i, status := range []models.TaskStatus{models.TaskDone, models.TaskTodo, models.TaskInProgress} {
		require.NoError(t, tasks.Create(ctx, &models.Task{
			ID: "tsk_" + string(rune('a'+i)), ProjectID: project.ID, Title: "t", Status: status,
			Priority: models.PriorityLow, CreatedAt: now, UpdatedAt: now,
		}))
	}

	stats, err := svc.Statistics(ctx, alice, project.ID, "org_a")
	require.NoError(t, err)
	require.Equal(t, &models.ProjectStatistics{TotalTasks: 3, CompletedTasks: 1, PendingTasks: 2, CompletionPercentage: 33.3}, stats)
}

func TestNewStatisticsEmptyProject(t *testing.T) {
	require.Equal(t, 0.0, NewStatistics(0, 0).CompletionPercentage)
	require.Equal(t, 66.7, NewStatistics(3, 2).CompletionPercentage)
}
