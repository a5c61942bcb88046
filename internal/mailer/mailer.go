// Package mailer renders admin-editable templates and delivers them over
// SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/config"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

// TemplateSource loads mail templates by code.
type TemplateSource interface {
	GetByCode(ctx context.Context, code string) (*domain.EmailTemplate, error)
}

type Mailer struct {
	cfg       config.SMTPConfig
	templates TemplateSource
	logger    *zap.Logger
}

// New creates a mailer over an SMTP relay.
func New(cfg config.SMTPConfig, templates TemplateSource, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, templates: templates, logger: logger}
}

// Send renders the template identified by code with data and delivers it.
func (m *Mailer) Send(ctx context.Context, to, code string, data interface{}) error {
	tmpl, err := m.templates.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	subject, err := render("subject", tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("render subject for %s: %w", code, err)
	}
	body, err := render("body", tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("render body for %s: %w", code, err)
	}

	msg := buildMessage(m.cfg.From, to, subject, body)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, nil, m.cfg.From, []string{to}, msg); err != nil {
		m.logger.Error("mail delivery failed",
			zap.String("to", to), zap.String("template", code), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("template", code))
	return nil
}

// Probe checks that the relay accepts connections. Used by the admin
// connectivity check; no mail is sent.
func (m *Mailer) Probe(ctx context.Context) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp probe: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp probe: %w", err)
	}
	defer client.Close()

	return client.Noop()
}

func render(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildMessage(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}
