package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/rings-s/anha/internal/config"
)

// Notifier delivers out-of-band messages to users. Delivery is
// fire-and-forget: failures are logged, never surfaced to the request
// that triggered them.
type Notifier interface {
	SendPasswordResetLink(ctx context.Context, email, token string)
}

type smtpNotifier struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewSMTPNotifier(cfg config.SMTPConfig, baseURL string) Notifier {
	return &smtpNotifier{cfg: cfg, baseURL: strings.TrimRight(baseURL, "/")}
}

func (n *smtpNotifier) SendPasswordResetLink(ctx context.Context, email, token string) {
	resetLink := fmt.Sprintf("%s/reset/%s", n.baseURL, token)

	// Without credentials the message is logged instead of sent, which
	// keeps local development mail-server free.
	if n.cfg.Password == "" {
		slog.Info("password reset link (smtp disabled)", "email", email, "link", resetLink)
		return
	}

	body := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + email,
		"Subject: Password reset",
		"",
		"We received a request to reset your password. Follow the link below to continue:",
		"",
		resetLink,
		"",
		"If you did not request this, ignore this message.",
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{email}, []byte(body)); err != nil {
		slog.Error("failed to send password reset email", "email", email, "error", err)
	}
}
