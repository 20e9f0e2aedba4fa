package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/engine/ownership"
	"projecthub/internal/engine/projects"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/pkg/validator"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

type CreateInput struct {
	ProjectID     string
	Title         string
	Description   string
	Status        string
	Priority      string
	AssigneeEmail string
	DueDate       *string
}

// UpdateInput changes only the fields that are non-nil.
type UpdateInput struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssigneeEmail *string
	DueDate       *string
}

const anonymousAuthor = "Anonymous"

type CommentInput struct {
	TaskID      string
	Content     string
	AuthorName  string
	AuthorEmail string
}

type Service struct {
	tasks    *repositories.TaskRepository
	comments *repositories.CommentRepository
	resolver *ownership.Resolver
}

func NewService(tasks *repositories.TaskRepository, comments *repositories.CommentRepository, resolver *ownership.Resolver) *Service {
	return &Service{tasks: tasks, comments: comments, resolver: resolver}
}

// List returns the project's tasks in board order.
func (s *Service) List(ctx context.Context, actor auth.Identity, projectID, orgID string) ([]*models.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	if _, err := s.resolver.ResolveProject(ctx, projectID, orgID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, taskID, orgID string) (*models.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	return s.resolver.ResolveTask(ctx, taskID, orgID)
}

// Create appends a task to the project. The title is checked before the project is
// resolved, so a blank title is reported even for a project the caller cannot see.
func (s *Service) Create(ctx context.Context, actor auth.Identity, orgID string, in CreateInput) (*models.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation("Task title is required")
	}

	project, err := s.resolver.ResolveProject(ctx, in.ProjectID, orgID)
	if err != nil {
		return nil, err
	}

	status := models.TaskTodo
	if in.Status != "" {
		if status, err = parseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	priority := models.PriorityMedium
	if in.Priority != "" {
		if priority, err = parsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	assignee, err := parseAssignee(in.AssigneeEmail)
	if err != nil {
		return nil, err
	}
	dueDate, err := projects.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	task := &models.Task{
		ID:             "tsk_" + uuid.NewString(),
		ProjectID:      project.ID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Status:         status,
		Priority:       priority,
		AssigneeEmail:  assignee,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		OrganizationID: project.OrganizationID,

		OrganizationActive: project.OrganizationActive,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, taskID, orgID string, in UpdateInput) (*models.Task, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	task, err := s.resolver.ResolveTask(ctx, taskID, orgID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.Validation("Task title cannot be empty")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if task.Status, err = parseStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	if in.Priority != nil {
		if task.Priority, err = parsePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.AssigneeEmail != nil {
		if task.AssigneeEmail, err = parseAssignee(*in.AssigneeEmail); err != nil {
			return nil, err
		}
	}
	if in.DueDate != nil {
		if task.DueDate, err = projects.ParseDueDate(in.DueDate); err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = time.Now().Unix()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// AddComment attaches a comment to the task. Without an author name the comment is
// attributed to "Anonymous".
func (s *Service) AddComment(ctx context.Context, actor auth.Identity, orgID string, in CommentInput) (*models.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.Validation("Comment content is required")
	}

	task, err := s.resolver.ResolveTask(ctx, in.TaskID, orgID)
	if err != nil {
		return nil, err
	}

	author := strings.TrimSpace(in.AuthorName)
	if author == "" {
		author = anonymousAuthor
	}
	authorEmail := validator.NormalizeEmail(in.AuthorEmail)

	now := time.Now().Unix()
	comment := &models.Comment{
		ID:          "cmt_" + uuid.NewString(),
		TaskID:      task.ID,
		Content:     content,
		AuthorName:  author,
		AuthorEmail: authorEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *Service) Comments(ctx context.Context, actor auth.Identity, taskID, orgID string) ([]*models.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}
	if _, err := s.resolver.ResolveTask(ctx, taskID, orgID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func parseStatus(raw string) (models.TaskStatus, error) {
	status := models.TaskStatus(raw)
	if !status.Valid() {
		return "", apperrors.Validation("Invalid status: " + raw)
	}
	return status, nil
}

func parsePriority(raw string) (models.TaskPriority, error) {
	priority := models.TaskPriority(raw)
	if !priority.Valid() {
		return "", apperrors.Validation("Invalid priority: " + raw)
	}
	return priority, nil
}

func parseAssignee(raw string) (string, error) {
	email := validator.NormalizeEmail(raw)
	if email != "" && !validator.IsEmail(email) {
		return "", apperrors.Validation("Invalid assignee email: " + raw)
	}
	return email, nil
}
