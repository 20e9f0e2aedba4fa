package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"projecthub/internal/platform/config"
)

// SMTPNotifier sends invites through a single SMTP relay.
type SMTPNotifier struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	from    string
	deliver deliverFunc
}

// deliverFunc hands a fully formatted message to the relay. Replaced in tests.
type deliverFunc func(ctx context.Context, cfg config.SMTPConfig, timeout time.Duration, from string, to []string, msg string) error

func NewSMTPNotifier(cfg config.SMTPConfig, timeout time.Duration) (*SMTPNotifier, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp: host is required when email is enabled")
	}
	if cfg.Port == 0 {
		return nil, errors.New("smtp: port is required when email is enabled")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	from := (&mail.Address{Name: cfg.FromName, Address: cfg.FromAddress}).String()
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("smtp: invalid from address: %w", err)
	}

	return &SMTPNotifier{cfg: cfg, timeout: timeout, from: from, deliver: deliverSMTP}, nil
}

func (n *SMTPNotifier) SendInvite(ctx context.Context, invite Invite) error {
	if err := checkRecipient(invite.Email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(invite.Email); err != nil {
		return fmt.Errorf("smtp: invalid recipient address %q: %w", invite.Email, err)
	}

	subject, body, err := Render(invite, time.Now())
	if err != nil {
		return err
	}

	msg := formatMessage(n.from, invite.Email, subject, body)
	return n.deliver(ctx, n.cfg, n.timeout, n.cfg.FromAddress, []string{invite.Email}, msg)
}

func deliverSMTP(ctx context.Context, cfg config.SMTPConfig, timeout time.Duration, from string, to []string, msg string) error {
	address := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))
	dialer := &net.Dialer{Timeout: timeout}

	var (
		conn net.Conn
		err  error
	)
	if cfg.UseTLS && cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", address, &tls.Config{ServerName: cfg.Host})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", address, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp: new client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok && cfg.UseTLS && cfg.Port != 465 {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return fmt.Errorf("smtp: start tls: %w", err)
		}
	}

	if strings.TrimSpace(cfg.Username) != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp: rcpt to %s: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data command: %w", err)
	}
	if _, err := io.WriteString(wc, msg); err != nil {
		_ = wc.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp: close data writer: %w", err)
	}

	return client.Quit()
}

func formatMessage(from, to, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + escapeHeader(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
	}
	return strings.Join(headers, "\r\n") + "\r\n" + strings.ReplaceAll(body, "\n", "\r\n")
}

func escapeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}
