package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

type MembershipRepository struct {
	db *database.DB
}

func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) CreateTx(ctx context.Context, tx *sql.Tx, m *models.Membership) error {
	return r.create(ctx, tx, m)
}

func (r *MembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	return r.create(ctx, r.db, m)
}

func (r *MembershipRepository) create(ctx context.Context, q querier, m *models.Membership) error {
	_, err := q.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO memberships (id, user_id, organization_id, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), m.ID, m.UserID, m.OrganizationID, m.Role.String(), m.CreatedAt)
	return err
}

// Get returns the membership for the (user, organization) pair, or nil.
func (r *MembershipRepository) Get(ctx context.Context, userID, orgID string) (*models.Membership, error) {
	return r.get(ctx, r.db, userID, orgID)
}

func (r *MembershipRepository) get(ctx context.Context, q querier, userID, orgID string) (*models.Membership, error) {
	row := q.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, user_id, organization_id, role, created_at
		FROM memberships WHERE user_id = ? AND organization_id = ?
	`), userID, orgID)

	m := &models.Membership{}
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.OrganizationID, &role, &m.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return withRole(m, role)
}

// ListByOrganization returns members with their username and email, oldest first.
func (r *MembershipRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT m.id, m.user_id, m.organization_id, m.role, m.created_at, u.username, u.email
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = ?
		ORDER BY m.created_at, u.username
	`), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		var role string
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &role, &m.CreatedAt, &m.Username, &m.Email); err != nil {
			return nil, err
		}
		if m, err = withRole(m, role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListByUser returns the user's memberships in active organizations.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT m.id, m.user_id, m.organization_id, m.role, m.created_at
		FROM memberships m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = ? AND o.is_active = ?
		ORDER BY m.created_at, o.name
	`), userID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*models.Membership{}
	for rows.Next() {
		m := &models.Membership{}
		var role string
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m, err = withRole(m, role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func withRole(m *models.Membership, role string) (*models.Membership, error) {
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("membership %s: %w", m.ID, err)
	}
	m.Role = parsed
	return m, nil
}
