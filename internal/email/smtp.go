// Package email sends transactional mail over SMTP. Dispatch is
// fire-and-forget from the caller's point of view: a returned error is the
// only signal, nothing is retried here.
package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"taskpulse/internal/config"
)

type Mailer struct {
	settings config.SMTP
}

func NewMailer(settings config.SMTP) *Mailer {
	return &Mailer{settings: settings}
}

// SendPasswordReset mails the reset link. The link embeds the raw one-time
// token; the message body is the only place it ever leaves the server.
func (m *Mailer) SendPasswordReset(to, resetLink string) error {
	html := fmt.Sprintf(`<a href="%s">Reset password</a>`, resetLink)
	return m.send(to, "Reset password", html)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.settings.Configured() {
		return errors.New("smtp not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.settings.Host, m.settings.Port)
	client, err := m.connect(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.settings.Username != "" {
		auth := smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.settings.From); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write([]byte(buildMessage(m.settings.From, to, subject, htmlBody))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	if err := client.Quit(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
		return fmt.Errorf("smtp quit: %w", err)
	}
	return nil
}

func (m *Mailer) connect(addr string) (*smtp.Client, error) {
	tlsMode := m.settings.TLSMode
	if tlsMode == "" {
		tlsMode = "starttls"
	}
	switch tlsMode {
	case "tls":
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.settings.Host, MinVersion: tls.VersionTLS12})
		if err != nil {
			return nil, fmt.Errorf("smtp tls dial: %w", err)
		}
		client, err := smtp.NewClient(conn, m.settings.Host)
		if err != nil {
			return nil, fmt.Errorf("smtp client: %w", err)
		}
		return client, nil
	default:
		client, err := smtp.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("smtp dial: %w", err)
		}
		if tlsMode == "starttls" {
			if err := client.StartTLS(&tls.Config{ServerName: m.settings.Host, MinVersion: tls.VersionTLS12}); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("smtp starttls: %w", err)
			}
		}
		return client, nil
	}
}

func buildMessage(from, to, subject, htmlBody string) string {
	lines := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		htmlBody,
	}
	return strings.Join(lines, "\r\n")
}
