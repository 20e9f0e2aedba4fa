package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

const organizationColumns = `id, name, slug, description, contact_email, is_active, created_at, updated_at`

type OrganizationRepository struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx)
}

func (r *OrganizationRepository) CreateTx(ctx context.Context, tx *sql.Tx, org *models.Organization) error {
	return r.create(ctx, tx, org)
}

func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.create(ctx, r.db, org)
}

func (r *OrganizationRepository) create(ctx context.Context, q querier, org *models.Organization) error {
	_, err := q.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO organizations (`+organizationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), org.ID, org.Name, org.Slug, org.Description, org.ContactEmail, org.IsActive, org.CreatedAt, org.UpdatedAt)
	return err
}

// GetByID returns the organization regardless of is_active, or nil when it does not exist.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+organizationColumns+` FROM organizations WHERE id = ?
	`), id)
	return scanOrganizationRow(row)
}

// ListForUser returns the active organizations userID belongs to, oldest first.
func (r *OrganizationRepository) ListForUser(ctx context.Context, userID string) ([]*models.Organization, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT o.id, o.name, o.slug, o.description, o.contact_email, o.is_active, o.created_at, o.updated_at
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = ? AND o.is_active = ?
		ORDER BY o.created_at, o.name
	`), userID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) Deactivate(ctx context.Context, id string, now int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE organizations SET is_active = ?, updated_at = ? WHERE id = ?
	`), false, now, id)
	return err
}

func (r *OrganizationRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM organizations WHERE is_active = ?`), true).Scan(&n)
	return n, err
}

func scanOrganizationRow(row *sql.Row) (*models.Organization, error) {
	org, err := scanOrganization(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func scanOrganization(s scanner) (*models.Organization, error) {
	org := &models.Organization{}
	err := s.Scan(&org.ID, &org.Name, &org.Slug, &org.Description, &org.ContactEmail, &org.IsActive, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return org, nil
}
