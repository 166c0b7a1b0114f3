package utils

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var templates embed.FS

var ErrMailNotConfigured = errors.New("mail is not configured")

type EmailData struct {
	Name            string
	Message         string
	VerificationURL string
}

type MailConfig struct {
	From        string
	Password    string
	SMTPHost    string
	SMTPAddress string
}

func (c MailConfig) Enabled() bool {
	return c.From != "" && c.SMTPAddress != ""
}

// Mailer sends templated HTML mail over SMTP.
type Mailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func RenderEmail(templateName string, data EmailData) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/"+templateName)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, data EmailData, templateName string) error {
	if m == nil || !m.cfg.Enabled() {
		return ErrMailNotConfigured
	}

	body, err := RenderEmail(templateName, data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)
	if err := smtp.SendMail(m.cfg.SMTPAddress, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
