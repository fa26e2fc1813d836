package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"bizconnect-backend/config"
	"bizconnect-backend/internal/domain"
)

// EmailService sends moderation outcome notifications via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// statusEmailTemplate is the HTML template for moderation outcome emails
const statusEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your BizConnect Profile</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .status { font-size: 20px; font-weight: bold; text-transform: capitalize; }
        .approved { color: #1a7f37; }
        .rejected { color: #cf222e; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Profile Review Update</h1>
        </div>
        <div class="content">
            <p>Hi {{.FullName}},</p>
            <p>Your professional profile has been reviewed. New status:</p>
            <p class="status {{.Status}}">{{.Status}}</p>
            {{if eq .Status "approved"}}
            <p>Your profile is now visible in the public directory.</p>
            {{else}}
            <p>You can update and re-submit your profile at any time.</p>
            {{end}}
        </div>
        <div class="footer">BizConnect Professional Directory</div>
    </div>
</body>
</html>`

type statusEmailData struct {
	FullName string
	Status   string
}

// IsConfigured checks if SMTP credentials are present
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// NotifyStatusChange emails the profile owner about a moderation
// decision. Callers treat failures as non-fatal: the status change is
// already committed when this runs.
func (s *EmailService) NotifyStatusChange(profile *domain.Profile) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email service not configured")
	}
	if profile.Email == "" {
		return fmt.Errorf("profile %s has no email", profile.ID)
	}

	tmpl, err := template.New("status").Parse(statusEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, statusEmailData{
		FullName: profile.FullName,
		Status:   string(profile.Status),
	})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	subject := "Your BizConnect profile was " + string(profile.Status)
	msg := []byte("From: " + s.fromEmail + "\r\n" +
		"To: " + profile.Email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body.String())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.fromEmail, []string{profile.Email}, msg)
}
