// Package notify delivers invite notifications to invitees.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"

	"projecthub/internal/platform/config"
)

// Invite is everything an invitation message needs.
type Invite struct {
	Email            string
	OrganizationName string
	Code             string
	InvitedBy        string
	JoinURL          string
	ExpiresAt        time.Time
}

type Notifier interface {
	SendInvite(ctx context.Context, invite Invite) error
}

// New returns an SMTP notifier when email is enabled and a log-only notifier otherwise.
func New(cfg config.EmailConfig) (Notifier, error) {
	if !cfg.Enabled {
		return LogNotifier{}, nil
	}
	return NewSMTPNotifier(cfg.SMTP, cfg.Timeout)
}

// LogNotifier records the join link instead of sending mail. Used in development.
type LogNotifier struct{}

func (LogNotifier) SendInvite(_ context.Context, invite Invite) error {
	log.Info().
		Str("email", invite.Email).
		Str("organization", invite.OrganizationName).
		Str("join_url", invite.JoinURL).
		Msg("email disabled, invite not sent")
	return nil
}

var inviteBody = template.Must(template.New("invite").Parse(`Hello,

{{.InvitedBy}} has invited you to join "{{.OrganizationName}}" on ProjectHub.

Click the link below to accept the invitation:
{{.JoinURL}}

Or use this invite code when signing up or joining:
{{.Code}}

This invitation expires in {{.Days}} days.

If you didn't expect this invitation, you can safely ignore this email.

Best regards,
The ProjectHub Team
`))

// Render builds the subject and plain-text body for an invite.
func Render(invite Invite, now time.Time) (subject, body string, err error) {
	days := int(invite.ExpiresAt.Sub(now).Round(time.Hour).Hours() / 24)
	if days < 1 {
		days = 1
	}

	var buf bytes.Buffer
	err = inviteBody.Execute(&buf, struct {
		Invite
		Days int
	}{invite, days})
	if err != nil {
		return "", "", fmt.Errorf("render invite: %w", err)
	}

	return "You've been invited to join " + invite.OrganizationName, buf.String(), nil
}

var errNoRecipient = errors.New("notify: recipient address is required")

func checkRecipient(email string) error {
	if strings.TrimSpace(email) == "" {
		return errNoRecipient
	}
	return nil
}
