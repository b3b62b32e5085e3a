// Package mailer renders report envelopes into HTML and plain-text email
// bodies and delivers them over SMTP.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/google/uuid"
	mail "github.com/wneessen/go-mail"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/config"
	"github.com/manamurah/flotilla-watch/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// funcs shared by the HTML and text templates. Optional fields render as a
// placeholder instead of a nil deref.
var htmlFuncs = htmltemplate.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"lower":  func(s models.VesselStatus) string { return strings.ToLower(string(s)) },
	"orDash": orElse("-"),
	"orNA":   orElse("N/A"),
}

var textFuncs = texttemplate.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"lower":  func(s models.VesselStatus) string { return strings.ToLower(string(s)) },
	"orDash": orElse("-"),
	"orNA":   orElse("N/A"),
}

func orElse(placeholder string) func(*string) string {
	return func(s *string) string {
		if s == nil || *s == "" {
			return placeholder
		}
		return *s
	}
}

// Mailer delivers report emails. It satisfies the workflow's Deliverer
// contract.
type Mailer struct {
	cfg    config.MailConfig
	logger *common.Logger
	html   *htmltemplate.Template
	text   *texttemplate.Template
}

// NewMailer creates a mailer with the embedded report templates parsed.
func NewMailer(cfg config.MailConfig, logger *common.Logger) (*Mailer, error) {
	html, err := htmltemplate.New("report.html.tmpl").Funcs(htmlFuncs).ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	text, err := texttemplate.New("report.txt.tmpl").Funcs(textFuncs).ParseFS(templateFS, "templates/report.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	return &Mailer{cfg: cfg, logger: logger, html: html, text: text}, nil
}

// Render produces the HTML and plain-text bodies for an envelope.
func (m *Mailer) Render(env *models.ReportEnvelope) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err := m.html.Execute(&hb, env); err != nil {
		return "", "", fmt.Errorf("failed to render HTML body: %w", err)
	}
	if err := m.text.Execute(&tb, env); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return hb.String(), tb.String(), nil
}

// Send renders and delivers the report to the configured recipient.
func (m *Mailer) Send(ctx context.Context, env *models.ReportEnvelope) (*models.DeliveryResult, error) {
	m.logger.Info().Str("recipient", m.cfg.Recipient).Msg("preparing email report")

	html, text, err := m.Render(env)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.SenderName, m.cfg.SenderEmail); err != nil {
		return nil, fmt.Errorf("invalid sender address %s: %w", m.cfg.SenderEmail, err)
	}
	if err := msg.To(m.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address %s: %w", m.cfg.Recipient, err)
	}

	messageID := fmt.Sprintf("%s@flotilla-watch", uuid.NewString())
	msg.SetMessageIDWithValue(messageID)
	msg.Subject(fmt.Sprintf("Flotilla Report - %s", env.ReportGeneratedDisplay))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send email to %s: %w", m.cfg.Recipient, err)
	}

	m.logger.Info().Str("message_id", messageID).Msg("email sent")

	return &models.DeliveryResult{
		Success:   true,
		MessageID: messageID,
		Recipient: m.cfg.Recipient,
	}, nil
}
