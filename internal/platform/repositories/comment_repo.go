package repositories

import (
	"context"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO task_comments (id, task_id, content, author_name, author_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.TaskID, c.Content, c.AuthorName, c.AuthorEmail, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, task_id, content, author_name, author_email, created_at, updated_at
		FROM task_comments WHERE task_id = ?
		ORDER BY created_at, id
	`), taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.AuthorName, &c.AuthorEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
