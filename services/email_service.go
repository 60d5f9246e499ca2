package services

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

// Mailer sends HTML email
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer delivers mail through an SMTP relay with gomail
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns nil when SMTP_HOST or SMTP_USER is not set
func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	if host == "" || user == "" {
		logging.Warn("SMTP is not configured, email disabled")
		return nil
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS")),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send email: %w", err)
	}
	metrics.EmailsSentTotal.WithLabelValues("sent").Inc()
	return nil
}

var registrationTemplate = template.Must(template.New("registration").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Hola {{.FullName}},</h2>
  <p>Tu registro al webinar está confirmado.</p>
  {{if .WebinarID}}<p>Webinar: <strong>{{.WebinarID}}</strong></p>{{end}}
  {{if .SponsorUsername}}<p>Te invitó: <strong>{{.SponsorUsername}}</strong></p>{{end}}
  <p>Te enviaremos el enlace de acceso antes de comenzar.</p>
</body>
</html>`))

// RegistrationEmail renders the confirmation sent to a new registrant
func RegistrationEmail(reg *models.Registration) (string, string, error) {
	var buf bytes.Buffer
	if err := registrationTemplate.Execute(&buf, reg); err != nil {
		return "", "", fmt.Errorf("failed to render registration email: %w", err)
	}
	return "Confirmación de registro", buf.String(), nil
}
