package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projecthub/internal/platform/config"
)

func sampleInvite(now time.Time) Invite {
	return Invite{
		Email:            "new@example.com",
		OrganizationName: "Acme",
		Code:             "abc123",
		InvitedBy:        "alice",
		JoinURL:          "http://localhost:3000/join?code=abc123",
		ExpiresAt:        now.Add(7 * 24 * time.Hour),
	}
}

func TestRender(t *testing.T) {
	now := time.Now()
	subject, body, err := Render(sampleInvite(now), now)
	require.NoError(t, err)

	require.Equal(t, "You've been invited to join Acme", subject)
	require.Contains(t, body, `alice has invited you to join "Acme"`)
	require.Contains(t, body, "http://localhost:3000/join?code=abc123")
	require.Contains(t, body, "expires in 7 days")
}

func TestNewSelectsImplementation(t *testing.T) {
	n, err := New(config.EmailConfig{Enabled: false})
	require.NoError(t, err)
	require.IsType(t, LogNotifier{}, n)

	_, err = New(config.EmailConfig{Enabled: true})
	require.Error(t, err)

	n, err = New(config.EmailConfig{Enabled: true, SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587, FromAddress: "noreply@example.com", FromName: "ProjectHub"}})
	require.NoError(t, err)
	require.IsType(t, &SMTPNotifier{}, n)
}

func TestSMTPNotifierFormatsMessage(t *testing.T) {
	n, err := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 587, FromAddress: "noreply@example.com", FromName: "ProjectHub"}, time.Second)
	require.NoError(t, err)

	var captured string
	var recipients []string
	n.deliver = func(_ context.Context, _ config.SMTPConfig, _ time.Duration, from string, to []string, msg string) error {
		require.Equal(t, "noreply@example.com", from)
		recipients = to
		captured = msg
		return nil
	}

	require.NoError(t, n.SendInvite(context.Background(), sampleInvite(time.Now())))
	require.Equal(t, []string{"new@example.com"}, recipients)
	require.True(t, strings.HasPrefix(captured, `From: "ProjectHub" <noreply@example.com>`))
	require.Contains(t, captured, "Subject: You've been invited to join Acme\r\n")
}

func TestSMTPNotifierPropagatesDeliveryError(t *testing.T) {
	n, err := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 587, FromAddress: "noreply@example.com"}, time.Second)
	require.NoError(t, err)
	n.deliver = func(context.Context, config.SMTPConfig, time.Duration, string, []string, string) error {
		return errors.New("connection refused")
	}

	require.Error(t, n.SendInvite(context.Background(), sampleInvite(time.Now())))
	require.Error(t, n.SendInvite(context.Background(), Invite{}))
}
