package projects

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/engine/ownership"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

const dateLayout = "2006-01-02"

type CreateInput struct {
	OrganizationID string
	Name           string
	Description    string
	Status         string
	DueDate        *string
}

// UpdateInput changes only the fields that are non-nil. An empty DueDate clears it.
type UpdateInput struct {
	Name        *string
	Description *string
	Status      *string
	DueDate     *string
}

type Service struct {
	repo     *repositories.ProjectRepository
	resolver *ownership.Resolver
}

func NewService(repo *repositories.ProjectRepository, resolver *ownership.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) List(ctx context.Context, actor auth.Identity, orgID string) ([]*models.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	if _, err := s.resolver.ResolveOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	projects, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, projectID, orgID string) (*models.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	return s.resolver.ResolveProject(ctx, projectID, orgID)
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (*models.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("Project name is required")
	}

	status := models.ProjectPlanning
	if in.Status != "" {
		status = models.ProjectStatus(in.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("Invalid status: " + in.Status)
		}
	}

	dueDate, err := ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	org, err := s.resolver.ResolveOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	project := &models.Project{
		ID:             "prj_" + uuid.NewString(),
		OrganizationID: org.ID,
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		Status:         status,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,

		OrganizationActive: org.IsActive,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, projectID, orgID string, in UpdateInput) (*models.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	project, err := s.resolver.ResolveProject(ctx, projectID, orgID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("Project name cannot be empty")
		}
		project.Name = name
	}
	if in.Description != nil {
		project.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		status := models.ProjectStatus(*in.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("Invalid status: " + *in.Status)
		}
		project.Status = status
	}
	if in.DueDate != nil {
		dueDate, err := ParseDueDate(in.DueDate)
		if err != nil {
			return nil, err
		}
		project.DueDate = dueDate
	}

	project.UpdatedAt = time.Now().Unix()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Statistics summarizes task completion for the project.
func (s *Service) Statistics(ctx context.Context, actor auth.Identity, projectID, orgID string) (*models.ProjectStatistics, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	if _, err := s.resolver.ResolveProject(ctx, projectID, orgID); err != nil {
		return nil, err
	}

	total, done, err := s.repo.TaskCounts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	return NewStatistics(total, done), nil
}

func NewStatistics(total, done int) *models.ProjectStatistics {
	stats := &models.ProjectStatistics{
		TotalTasks:     total,
		CompletedTasks: done,
		PendingTasks:   total - done,
	}
	if total > 0 {
		stats.CompletionPercentage = math.Round(float64(done)/float64(total)*1000) / 10
	}
	return stats
}

// ParseDueDate accepts nil, an empty string (no date) or YYYY-MM-DD.
func ParseDueDate(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return nil, apperrors.Validation("Invalid due date: " + value + " (expected YYYY-MM-DD)")
	}
	return &value, nil
}
