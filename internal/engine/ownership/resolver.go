// Package ownership loads tenant-scoped resources and proves they belong to the organization
// the caller is acting in. Handlers never compare organization ids themselves.
package ownership

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

// Owned is implemented by every resource that belongs to exactly one organization.
type Owned interface {
	OwningOrganizationID() string
	OwningOrganizationActive() bool
}

type Resolver struct {
	orgs     *repositories.OrganizationRepository
	projects *repositories.ProjectRepository
	tasks    *repositories.TaskRepository
}

func NewResolver(orgs *repositories.OrganizationRepository, projects *repositories.ProjectRepository, tasks *repositories.TaskRepository) *Resolver {
	return &Resolver{orgs: orgs, projects: projects, tasks: tasks}
}

// ResolveOrganization returns the organization if it exists and is active.
func (r *Resolver) ResolveOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org, err := r.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil || !org.IsActive {
		return nil, apperrors.NotFound("Organization not found")
	}
	return org, nil
}

func (r *Resolver) ResolveProject(ctx context.Context, projectID, claimedOrgID string) (*models.Project, error) {
	project, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("Project not found")
	}
	if err := verify("project", project, claimedOrgID); err != nil {
		return nil, err
	}
	return project, nil
}

// ResolveTask checks the task against the organization of its project, read in the same
// statement as the task itself.
func (r *Resolver) ResolveTask(ctx context.Context, taskID, claimedOrgID string) (*models.Task, error) {
	task, err := r.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return nil, apperrors.NotFound("Task not found")
	}
	if err := verify("task", task, claimedOrgID); err != nil {
		return nil, err
	}
	return task, nil
}

// verify rejects resources of another organization, and resources of a deactivated one as if
// the organization did not exist.
func verify(resource string, owned Owned, claimedOrgID string) error {
	if owned.OwningOrganizationID() == claimedOrgID {
		if !owned.OwningOrganizationActive() {
			return apperrors.NotFound("Organization not found")
		}
		return nil
	}

	metrics.AuthorizationDenials.WithLabelValues(resource).Inc()
	log.Debug().Str("resource", resource).Str("claimed_org", claimedOrgID).Msg("cross-organization access denied")
	return apperrors.AccessDenied("Access denied to this " + resource)
}
