package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

const projectColumns = `id, organization_id, name, description, status, due_date, created_at, updated_at`

// Project reads carry the owning organization's is_active flag.
const projectSelect = `
	SELECT p.id, p.organization_id, p.name, p.description, p.status, p.due_date, p.created_at, p.updated_at,
		o.is_active
	FROM projects p
	JOIN organizations o ON o.id = p.organization_id`

type ProjectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.OrganizationID, p.Name, p.Description, string(p.Status), nullString(p.DueDate), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(projectSelect+` WHERE p.id = ?`), id)

	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(projectSelect+`
		WHERE p.organization_id = ?
		ORDER BY p.created_at DESC, p.id
	`), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update writes the mutable fields; organization_id never changes after creation.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE projects SET name = ?, description = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`), p.Name, p.Description, string(p.Status), nullString(p.DueDate), p.UpdatedAt, p.ID)
	return err
}

// TaskCounts returns the total number of tasks in the project and how many are DONE.
func (r *ProjectRepository) TaskCounts(ctx context.Context, projectID string) (total, done int, err error) {
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE project_id = ?
	`), string(models.TaskDone), projectID).Scan(&total, &done)
	return total, done, err
}

func scanProject(s scanner) (*models.Project, error) {
	p := &models.Project{}
	var status string
	var dueDate sql.NullString
	if err := s.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &status, &dueDate, &p.CreatedAt, &p.UpdatedAt, &p.OrganizationActive); err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	p.DueDate = stringPtr(dueDate)
	return p, nil
}
