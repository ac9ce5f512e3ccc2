// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends email through a single SMTP server. When no host is
// configured it logs the message instead, which keeps local development
// working without a mail account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// New creates a Mailer. An empty host enables log-only mode.
func New(host string, port int, username, password, from string, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// SendVerificationCode emails a signup verification code to the address.
func (m *Mailer) SendVerificationCode(ctx context.Context, to, username, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your verification code is: %s\r\n\r\n"+
			"The code expires in 24 hours. If you did not request this, you can ignore this email.\r\n",
		username, code)

	return m.send(ctx, to, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m.host == "" {
		m.logger.Info("smtp not configured, logging email instead",
			"to", to,
			"subject", subject,
		)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}
