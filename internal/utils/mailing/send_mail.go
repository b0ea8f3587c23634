package mailing

import (
	"errors"
	"fmt"
	"html"
	"strconv"

	"recipe-ai-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp is not configured")

type (
	Mailer interface {
		Send(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		cfg MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewMailer(cfg MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(toEmail string, subject string, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPEmail == "" {
		return ErrMailNotConfigured
	}

	mailer := gomail.NewMessage()
	if m.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", m.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid smtp port %q: %w", m.cfg.SMTPPort, err)
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

// SendMail sends with the configuration from config.yaml.
func SendMail(toEmail string, subject string, body string) error {
	return NewMailer(LoadMailConfig()).Send(toEmail, subject, body)
}

func RecipeShareBody(senderName, recipeTitle, shareLink, message string) string {
	note := ""
	if message != "" {
		note = fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(message))
	}
	return fmt.Sprintf(
		`<html><body>
<p>%s shared a recipe with you: <strong>%s</strong></p>
%s
<p><a href="%s">Open the recipe</a></p>
</body></html>`,
		html.EscapeString(senderName),
		html.EscapeString(recipeTitle),
		note,
		html.EscapeString(shareLink),
	)
}
