// Package invites issues and redeems single-use organization invites.
package invites

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"projecthub/internal/engine/membership"
	"projecthub/internal/engine/ownership"
	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/pkg/validator"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/notify"
	"projecthub/internal/platform/repositories"
)

const (
	DefaultTTL = 7 * 24 * time.Hour

	maxCodeAttempts = 5

	msgInvalidCode    = "Invalid invite code"
	msgExpiredOrUsed  = "This invite has expired or has already been used"
	msgOwnersOnly     = "Only organization owners can send invites"
	msgOwnersListOnly = "Only organization owners can view invites"
)

type Ledger struct {
	invites     *repositories.InviteRepository
	members     *membership.Registry
	resolver    *ownership.Resolver
	notifier    notify.Notifier
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
}

type Option func(*Ledger)

func WithTTL(ttl time.Duration) Option {
	return func(l *Ledger) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, letting tests move past expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(
	invites *repositories.InviteRepository,
	members *membership.Registry,
	resolver *ownership.Resolver,
	notifier notify.Notifier,
	frontendURL string,
	opts ...Option,
) *Ledger {
	l := &Ledger{
		invites:     invites,
		members:     members,
		resolver:    resolver,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		ttl:         DefaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IssueResult reports the stored invite and whether the notification went out. A failed
// notification does not undo the invite; the code can still be shared by hand.
type IssueResult struct {
	Invite    *models.Invite
	EmailSent bool
}

func (l *Ledger) Issue(ctx context.Context, actor auth.Identity, orgID, email string) (*IssueResult, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	email = validator.NormalizeEmail(email)
	if !validator.IsEmail(email) {
		return nil, apperrors.Validation("A valid email address is required")
	}

	org, err := l.resolver.ResolveOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	isOwner, err := l.members.HasRole(ctx, actor.UserID, org.ID, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		metrics.AuthorizationDenials.WithLabelValues("invite").Inc()
		return nil, apperrors.PermissionDenied(msgOwnersOnly)
	}

	now := l.now()
	invite := &models.Invite{
		ID:             "inv_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          email,
		InvitedBy:      actor.UserID,
		ExpiresAt:      now.Add(l.ttl).Unix(),
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	}
	if err := l.store(ctx, invite); err != nil {
		return nil, err
	}

	metrics.InvitesIssued.Inc()
	log.Info().Str("invite_id", invite.ID).Str("org_id", org.ID).Str("invited_by", actor.UserID).Msg("invite issued")

	result := &IssueResult{Invite: invite, EmailSent: true}
	err = l.notifier.SendInvite(ctx, notify.Invite{
		Email:            invite.Email,
		OrganizationName: org.Name,
		Code:             invite.Code,
		InvitedBy:        actor.DisplayName(),
		JoinURL:          l.JoinURL(invite.Code),
		ExpiresAt:        time.Unix(invite.ExpiresAt, 0),
	})
	if err != nil {
		result.EmailSent = false
		metrics.InviteEmails.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Str("invite_id", invite.ID).Msg("invite stored but notification failed")
	} else {
		metrics.InviteEmails.WithLabelValues("sent").Inc()
	}

	return result, nil
}

// store inserts the invite, drawing a new code if the previous one collided.
func (l *Ledger) store(ctx context.Context, invite *models.Invite) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return fmt.Errorf("generate invite code: %w", err)
		}
		invite.Code = code

		err = l.invites.Create(ctx, invite)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return fmt.Errorf("create invite: %w", err)
		}
	}
	return fmt.Errorf("create invite: no unique code after %d attempts", maxCodeAttempts)
}

// Redeem joins the actor to the invite's organization as a member and consumes the invite.
// An actor who already belongs to the organization gets it back without touching the invite.
func (l *Ledger) Redeem(ctx context.Context, actor auth.Identity, code string) (*models.Organization, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	invite, err := l.invites.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("load invite: %w", err)
	}
	if invite == nil {
		metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		return nil, apperrors.InviteInvalid(msgInvalidCode)
	}

	now := l.now()
	if !invite.IsValid(now) {
		metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		return nil, apperrors.InviteInvalid(msgExpiredOrUsed)
	}

	org, err := l.resolver.ResolveOrganization(ctx, invite.OrganizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
			return nil, apperrors.InviteInvalid(msgInvalidCode)
		}
		return nil, err
	}

	isMember, err := l.members.IsMember(ctx, actor.UserID, org.ID)
	if err != nil {
		return nil, err
	}
	if isMember {
		metrics.InviteRedemptions.WithLabelValues("already_member").Inc()
		return org, nil
	}

	joined, err := l.consume(ctx, invite, actor.UserID, now)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindInviteInvalid) {
			metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}
	if !joined {
		metrics.InviteRedemptions.WithLabelValues("already_member").Inc()
		return org, nil
	}

	metrics.InviteRedemptions.WithLabelValues("joined").Inc()
	log.Info().Str("invite_id", invite.ID).Str("org_id", org.ID).Str("user_id", actor.UserID).Msg("invite redeemed")
	return org, nil
}

// consume marks the invite used and creates the membership in one transaction. It returns
// false, with nothing written, when the actor became a member concurrently.
func (l *Ledger) consume(ctx context.Context, invite *models.Invite, userID string, now time.Time) (bool, error) {
	tx, err := l.invites.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("begin redemption: %w", err)
	}
	defer tx.Rollback()

	ok, err := l.invites.MarkUsedTx(ctx, tx, invite.ID, userID, now.Unix())
	if err != nil {
		return false, fmt.Errorf("mark invite used: %w", err)
	}
	if !ok {
		return false, apperrors.InviteInvalid(msgExpiredOrUsed)
	}

	if _, err := l.members.CreateTx(ctx, tx, userID, invite.OrganizationID, models.RoleMember); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateMembership) {
			return false, nil
		}
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit redemption: %w", err)
	}
	return true, nil
}

// List returns every invite of the organization, newest first. Owners only.
func (l *Ledger) List(ctx context.Context, actor auth.Identity, orgID string) ([]*models.Invite, error) {
	if err := l.requireOwner(ctx, actor, orgID, msgOwnersListOnly); err != nil {
		return nil, err
	}

	invites, err := l.invites.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invites, nil
}

// Get returns the invite behind code to an owner of its organization.
func (l *Ledger) Get(ctx context.Context, actor auth.Identity, code string) (*models.Invite, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	invite, err := l.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load invite: %w", err)
	}
	if invite == nil {
		return nil, apperrors.NotFound("Invite not found")
	}

	if err := l.requireOwner(ctx, actor, invite.OrganizationID, msgOwnersListOnly); err != nil {
		return nil, err
	}
	return invite, nil
}

func (l *Ledger) requireOwner(ctx context.Context, actor auth.Identity, orgID, message string) error {
	if !actor.IsAuthenticated() {
		return apperrors.Unauthenticated()
	}
	if _, err := l.resolver.ResolveOrganization(ctx, orgID); err != nil {
		return err
	}

	isOwner, err := l.members.HasRole(ctx, actor.UserID, orgID, models.RoleOwner)
	if err != nil {
		return err
	}
	if !isOwner {
		metrics.AuthorizationDenials.WithLabelValues("invite").Inc()
		return apperrors.PermissionDenied(message)
	}
	return nil
}

// Stats counts the ledger by state as of now.
func (l *Ledger) Stats(ctx context.Context) (repositories.InviteCounts, error) {
	counts, err := l.invites.CountByState(ctx, l.now().Unix())
	if err != nil {
		return counts, fmt.Errorf("count invites: %w", err)
	}
	return counts, nil
}

// JoinURL is the link an invitee follows to redeem code.
func (l *Ledger) JoinURL(code string) string {
	return l.frontendURL + "/join?code=" + url.QueryEscape(code)
}
