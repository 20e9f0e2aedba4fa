package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

// Every task read joins its project and organization so ownership is loaded with the task.
const taskSelect = `
	SELECT t.id, t.project_id, t.title, t.description, t.status, t.priority, t.assignee_email,
		t.due_date, t.sort_order, t.created_at, t.updated_at, p.organization_id, o.is_active
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	JOIN organizations o ON o.id = p.organization_id`

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create assigns task.Order from the number of tasks already in the project, counted in the
// same transaction as the insert.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?`), task.ProjectID).Scan(&count); err != nil {
		return err
	}
	task.Order = count

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO tasks (id, project_id, title, description, status, priority, assignee_email, due_date, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), task.ID, task.ProjectID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.AssigneeEmail, nullString(task.DueDate), task.Order, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns the task with OrganizationID populated from its project, or nil.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(taskSelect+` WHERE t.id = ?`), id)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(taskSelect+`
		WHERE t.project_id = ?
		ORDER BY t.sort_order, t.created_at
	`), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, assignee_email = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`), task.Title, task.Description, string(task.Status), string(task.Priority), task.AssigneeEmail,
		nullString(task.DueDate), task.UpdatedAt, task.ID)
	return err
}

func scanTask(s scanner) (*models.Task, error) {
	task := &models.Task{}
	var status, priority string
	var dueDate sql.NullString
	err := s.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description, &status, &priority,
		&task.AssigneeEmail, &dueDate, &task.Order, &task.CreatedAt, &task.UpdatedAt, &task.OrganizationID, &task.OrganizationActive)
	if err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	task.Priority = models.TaskPriority(priority)
	task.DueDate = stringPtr(dueDate)
	return task, nil
}
