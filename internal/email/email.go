// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// FollowUpLead is one lead due for follow-up today.
type FollowUpLead struct {
	Name    string
	Company string
	Phone   string
	Status  string
}

// FollowUpReminderData feeds the daily reminder template.
type FollowUpReminderData struct {
	OwnerName    string
	Date         string
	Leads        []FollowUpLead
	DashboardURL string
}

func (s *Service) loadTemplates() {
	s.templates["followup_reminder"] = template.Must(template.New("followup_reminder").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .lead-card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #2563eb; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Follow-ups due today</h2>
    </div>
    <div class="content">
        <p>Hi {{.OwnerName}},</p>
        <p>You have {{len .Leads}} lead(s) scheduled for follow-up on {{.Date}}:</p>

        {{range .Leads}}
        <div class="lead-card">
            <h3>{{.Name}}</h3>
            {{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
            {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
            <p><strong>Status:</strong> {{.Status}}</p>
        </div>
        {{end}}

        <a href="{{.DashboardURL}}" class="btn">Open Dashboard</a>
    </div>
    <div class="footer">
        Zenith CRM • Lead Management
    </div>
</div>
</body>
</html>
`))
}

// SendFollowUpReminder emails an owner the leads due for follow-up today.
func (s *Service) SendFollowUpReminder(to string, data FollowUpReminderData) error {
	if data.Date == "" {
		data.Date = time.Now().Format("Jan 2, 2006")
	}
	return s.sendWithTemplate([]string{to}, "Leads due for follow-up today", "followup_reminder", data)
}

func (s *Service) sendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	return s.Send(&Email{To: to, Subject: subject, HTMLBody: body.String()})
}

// Send delivers a message over SMTP, with or without TLS.
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		return s.sendTLS(addr, auth, email.To, msg.Bytes())
	}
	return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
}

func (s *Service) sendTLS(addr string, auth smtp.Auth, recipients []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("TLS dial error: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client error: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("auth error: %w", err)
	}
	if err = client.Mail(s.config.From); err != nil {
		return fmt.Errorf("mail error: %w", err)
	}
	for _, rcpt := range recipients {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt error: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data error: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}
	return client.Quit()
}
