package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/resolveai/resolve-backend/internal/config"
)

var ErrNotConfigured = errors.New("outbound email not configured")

// Mailer sends documentation emails over SMTP.
type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers a single message. The content type is inferred from the body:
// anything containing HTML tags goes out as text/html.
func (m *Mailer) Send(recipient, subject, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" {
		return ErrNotConfigured
	}
	if recipient == "" {
		return errors.New("recipient email address cannot be empty")
	}
	if subject == "" {
		return errors.New("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.cfg.EmailFrom, subject, contentType, body))

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, m.cfg.EmailFrom, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
