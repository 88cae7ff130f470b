package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/mail"
	"strings"

	"law_desk_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

var alertEmailTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<body style="font-family: Tahoma, Arial, sans-serif;">
  <h2 style="color:#b91c1c;">{{.Title}}</h2>
  {{range .Lines}}<p>{{.}}</p>{{end}}
</body>
</html>`))

// BuildAlertEmail renders an urgent case alert as an email
func BuildAlertEmail(to []string, alert Alert) *Email {
	lines := strings.Split(alert.Body, "\n")

	var buf bytes.Buffer
	data := struct {
		Title string
		Lines []string
	}{alert.Title, lines}
	htmlBody := ""
	if err := alertEmailTemplate.Execute(&buf, data); err != nil {
		log.Printf("Error rendering alert email: %v", err)
	} else {
		htmlBody = buf.String()
	}

	return &Email{
		To:       append([]string{}, to...),
		Subject:  fmt.Sprintf("%s - %s", alert.Title, lines[0]),
		HTMLBody: htmlBody,
		TextBody: alert.Body,
	}
}

// Validate checks the recipients parse as addresses and there is a body
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return errors.New("email has no recipients")
	}
	for _, to := range e.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	if e.HTMLBody == "" && e.TextBody == "" {
		return errors.New("email must have either HTMLBody or TextBody")
	}
	return nil
}

// sendRequest builds the Resend payload for email
func sendRequest(cfg *config.Config, email *Email) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
}

// SendEmail sends through Resend, or only logs it in test mode
func SendEmail(cfg *config.Config, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}
	if cfg.ResendAPIKey == "" {
		return errors.New("RESEND_API_KEY not configured")
	}

	sent, err := resend.NewClient(cfg.ResendAPIKey).Emails.Send(sendRequest(cfg, email))
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	log.Printf("[EMAIL] Sent %q via Resend (ID: %s) to %v", email.Subject, sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	log.Printf("[EMAIL] Test mode, not sent. To: %v Subject: %q\n%s", email.To, email.Subject, truncate(email.TextBody, 500))
}

// truncate shortens s to at most maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
