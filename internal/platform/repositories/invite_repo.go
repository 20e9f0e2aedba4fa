package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/models"
)

const inviteColumns = `id, organization_id, email, code, invited_by, expires_at, used, used_by, created_at, updated_at`

type InviteRepository struct {
	db *database.DB
}

func NewInviteRepository(db *database.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx)
}

func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO invites (`+inviteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), invite.ID, invite.OrganizationID, invite.Email, invite.Code, invite.InvitedBy, invite.ExpiresAt,
		invite.Used, nullString(invite.UsedBy), invite.CreatedAt, invite.UpdatedAt)
	return err
}

func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+inviteColumns+` FROM invites WHERE code = ?
	`), code)

	invite, err := scanInvite(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return invite, nil
}

// MarkUsedTx consumes the invite only if it is still unused and unexpired at now. It reports
// false when another redemption won the race or the invite lapsed since it was read.
func (r *InviteRepository) MarkUsedTx(ctx context.Context, tx *sql.Tx, id, userID string, now int64) (bool, error) {
	res, err := tx.ExecContext(ctx, r.db.Rebind(`
		UPDATE invites SET used = ?, used_by = ?, updated_at = ?
		WHERE id = ? AND used = ? AND expires_at > ?
	`), true, userID, now, id, false, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *InviteRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.Invite, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+inviteColumns+` FROM invites WHERE organization_id = ?
		ORDER BY created_at DESC, id
	`), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

// InviteCounts is the ledger broken down by state at a point in time.
type InviteCounts struct {
	Issued  int
	Used    int
	Expired int
}

func (r *InviteRepository) CountByState(ctx context.Context, now int64) (InviteCounts, error) {
	var c InviteCounts
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN used = ? AND expires_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN used = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN used = ? AND expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM invites
	`), false, now, true, false, now).Scan(&c.Issued, &c.Used, &c.Expired)
	return c, err
}

func scanInvite(s scanner) (*models.Invite, error) {
	invite := &models.Invite{}
	var usedBy sql.NullString
	err := s.Scan(&invite.ID, &invite.OrganizationID, &invite.Email, &invite.Code, &invite.InvitedBy,
		&invite.ExpiresAt, &invite.Used, &usedBy, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		return nil, err
	}
	invite.UsedBy = stringPtr(usedBy)
	return invite, nil
}
