package services

import (
	"fmt"
	"net/smtp"
	"recruiter/config"
	"recruiter/internal/logger"
	"strings"
)

// Mailer delivers a single message. Delivery failures never roll back the
// state transition that triggered them; callers surface them as a
// NotificationError and decide retry policy.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	host string
	port int
	from string
	auth smtp.Auth
	log  logger.Logger
}

func NewSMTPMailer(config config.Config) *SMTPMailer {
	var auth smtp.Auth
	if config.SMTPUser != "" {
		auth = smtp.PlainAuth("", config.SMTPUser, config.SMTPPass, config.SMTPHost)
	}

	return &SMTPMailer{
		host: config.SMTPHost,
		port: config.SMTPPort,
		from: config.SMTPFrom,
		auth: auth,
		log:  logger.New("SMTPMailer"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	log := m.log.Function("Send")

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return log.Err("failed to send mail", err, "to", to, "subject", subject)
	}

	log.Info("Mail sent", "to", to, "subject", subject)
	return nil
}

// RenderTemplate substitutes the placeholders campaign email templates use.
// Unknown placeholders are left untouched so template typos stay visible.
func RenderTemplate(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}
