package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/alumnihq/alumnihq/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg  Config
	tmpl *template.Template
}

func NewSMTP(cfg Config) (*SMTPProvider, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &SMTPProvider{cfg: cfg, tmpl: tmpl}, nil
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", to[0], subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, p.cfg.From, to, msg)
}

func (p *SMTPProvider) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error {
	var body bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return fmt.Errorf("execute template %s: %w", templateName, err)
	}

	subject := subjectFor(templateName, data)
	if err := p.Send(ctx, to, subject, body.String()); err != nil {
		return err
	}
	metrics.IncEmailSent(templateName)
	return nil
}

func subjectFor(templateName string, data map[string]any) string {
	if subj, ok := data["subject"].(string); ok && subj != "" {
		return subj
	}

	switch templateName {
	case "welcome":
		return "Welcome to the Alumni Network!"
	case "donation_receipt":
		if amount, ok := data["amount"]; ok {
			return fmt.Sprintf("Donation Receipt - %v", amount)
		}
		return "Donation Receipt"
	case "event_reminder":
		if name, ok := data["event_name"].(string); ok && name != "" {
			return fmt.Sprintf("Reminder: %s is tomorrow!", name)
		}
		return "Event reminder"
	case "membership_expiry":
		return "Your Alumni Membership Expires in 7 Days"
	case "monthly_digest":
		return "Your Monthly Alumni Network Digest"
	case "pending_posts":
		if n, ok := data["pending_count"]; ok {
			return fmt.Sprintf("%v Wall Posts Awaiting Publication", n)
		}
		return "Wall Posts Awaiting Publication"
	default:
		return "Notification from AlumniHQ"
	}
}
