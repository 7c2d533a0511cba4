package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"cinebook/pkg/logger"

	"gopkg.in/gomail.v2"
)

// EmailService delivers a rendered notification
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c *SMTPConfig) Configured() bool {
	return c != nil && c.Host != "" && c.FromEmail != ""
}

// mailDialer is satisfied by *gomail.Dialer
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// GomailEmailService sends HTML mail over SMTP
type GomailEmailService struct {
	config *SMTPConfig
	dialer mailDialer
}

func NewGomailEmailService(config *SMTPConfig) *GomailEmailService {
	return &GomailEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *GomailEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	body, err := RenderNotification(notification)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", notification.RecipientEmail)
	m.SetHeader("Subject", notification.Subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogEmailService only logs; used when SMTP is not configured
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{log: logger.GetDefault()}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	s.log.InfoWithContext(ctx, "Email (not sent, SMTP disabled)", map[string]interface{}{
		"to":      notification.RecipientEmail,
		"type":    notification.Type,
		"subject": notification.Subject,
	})
	return nil
}

var (
	templatesOnce sync.Once
	templates     map[NotificationType]*template.Template
)

const layoutTemplate = `<div style="font-family:Arial,sans-serif;max-width:560px;margin:auto">
<h2 style="color:#e50914">CineBook</h2>
<p>Hi {{.Name}},</p>
{{template "content" .}}
<p style="color:#888;font-size:12px">This is an automated message, please do not reply.</p>
</div>`

var contentTemplates = map[NotificationType]string{
	NotificationTypeOTPCode: `{{define "content"}}<p>Your verification code for {{.Data.purpose_label}} is:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Data.code}}</strong></p>
<p>The code expires in {{.Data.expires_minutes}} minutes.</p>{{end}}`,

	NotificationTypeBookingConfirmed: `{{define "content"}}<p>Your booking <strong>{{.Data.booking_code}}</strong> is confirmed.</p>
<ul>
<li>Movie: {{.Data.movie_title}}</li>
<li>Hall: {{.Data.hall_name}}</li>
<li>Showtime: {{.Data.show_at}}</li>
<li>Seats: {{.Data.seats}}</li>
<li>Total: {{.Data.total}}</li>
</ul>
<p>Show the QR code in the app at the entrance.</p>{{end}}`,

	NotificationTypeBookingCancelled: `{{define "content"}}<p>Your booking <strong>{{.Data.booking_code}}</strong> for {{.Data.movie_title}} was cancelled.</p>
<p>Refund: {{.Data.refund_percentage}}% ({{.Data.refund_amount}}) credited to your wallet.</p>{{end}}`,
}

func loadTemplates() {
	templates = make(map[NotificationType]*template.Template, len(contentTemplates))
	for t, content := range contentTemplates {
		templates[t] = template.Must(template.Must(template.New(string(t)).Parse(layoutTemplate)).Parse(content))
	}
}

// RenderNotification renders the HTML body for a notification
func RenderNotification(n *EmailNotification) (string, error) {
	templatesOnce.Do(loadTemplates)

	tmpl, ok := templates[n.Type]
	if !ok {
		return "", fmt.Errorf("no template for notification type %s", n.Type)
	}

	name := strings.TrimSpace(n.RecipientName)
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]interface{}{
		"Name": name,
		"Data": n.TemplateData,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatVND renders an amount as "385.000 ₫"
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + " ₫"
	if neg {
		out = "-" + out
	}
	return out
}
