package services

import (
	"testing"

	"law_desk_app_go/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildAlertEmail(t *testing.T) {
	alert := Alert{
		Title: AlertTitle,
		Body:  "قضية الإرث\nجلسة قضية - متبقي غداً\nالموعد: 12/05/2026",
	}

	email := BuildAlertEmail([]string{"lawyer@example.com"}, alert)
	assert.Equal(t, []string{"lawyer@example.com"}, email.To)
	assert.Equal(t, AlertTitle+" - قضية الإرث", email.Subject)
	assert.Equal(t, alert.Body, email.TextBody)
	assert.Contains(t, email.HTMLBody, `dir="rtl"`)
	assert.Contains(t, email.HTMLBody, "<p>الموعد: 12/05/2026</p>")
}

func TestBuildAlertEmail_EscapesHTML(t *testing.T) {
	email := BuildAlertEmail([]string{"a@example.com"}, Alert{Title: AlertTitle, Body: "<script>x</script>"})
	assert.NotContains(t, email.HTMLBody, "<script>")
}

func TestEmailValidate(t *testing.T) {
	tests := []struct {
		name    string
		email   Email
		wantErr string
	}{
		{"ok", Email{To: []string{"lawyer@office.ma"}, TextBody: "x"}, ""},
		{"named recipient", Email{To: []string{"Amal Benali <amal@office.ma>"}, HTMLBody: "<p>x</p>"}, ""},
		{"no recipients", Email{TextBody: "x"}, "no recipients"},
		{"bad recipient", Email{To: []string{"not an address"}, TextBody: "x"}, "invalid recipient"},
		{"no body", Email{To: []string{"lawyer@office.ma"}}, "either HTMLBody or TextBody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.email.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSendEmail(t *testing.T) {
	email := &Email{To: []string{"lawyer@office.ma"}, Subject: "تنبيه", TextBody: "جلسة غداً"}

	assert.NoError(t, SendEmail(&config.Config{EmailTestMode: true}, email))
	assert.ErrorContains(t, SendEmail(&config.Config{}, email), "RESEND_API_KEY not configured")
	// invalid messages are refused before any delivery path
	assert.ErrorContains(t, SendEmail(&config.Config{EmailTestMode: true}, &Email{To: []string{"x"}, TextBody: "b"}), "invalid recipient")
}

func TestSendRequest(t *testing.T) {
	cfg := &config.Config{EmailFrom: "alerts@office.ma", EmailFromName: "LawDesk"}
	req := sendRequest(cfg, BuildAlertEmail([]string{"lawyer@office.ma"}, Alert{Title: AlertTitle, Body: "قضية الإرث"}))

	assert.Equal(t, "LawDesk <alerts@office.ma>", req.From)
	assert.Equal(t, []string{"lawyer@office.ma"}, req.To)
	assert.Equal(t, "قضية الإرث", req.Text)
	assert.Contains(t, req.Html, "قضية الإرث")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Hello", truncate("Hello World", 5))
	assert.Equal(t, "Hello World", truncate("Hello World", 20))
	assert.Equal(t, "مرح", truncate("مرحبا", 3))
}
