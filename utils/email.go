package utils

import (
	"fmt"
	"log"
	"net/smtp"

	"table_order/config"

	"github.com/jordan-wright/email"
	"gopkg.in/gomail.v2"
)

func smtpConfigured() bool {
	return config.Config("SMTP_HOST") != ""
}

// SendPasswordResetEmail mails the reset link. Without SMTP settings the link
// is only logged, which keeps local development usable.
func SendPasswordResetEmail(to, resetLink string) error {
	if !smtpConfigured() {
		log.Printf("SMTP not configured, password reset link for %s: %s", to, resetLink)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.ConfigOr("SMTP_FROM", config.Config("SMTP_USERNAME")))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>We received a request to reset your password.</p><p><a href="%s">Choose a new password</a></p><p>The link expires in one hour. If you did not ask for this, ignore this email.</p>`,
		resetLink))

	d := gomail.NewDialer(config.Config("SMTP_HOST"), config.Int("SMTP_PORT", 587), config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

// SendSecurityNotice tells a user about a change to their account security.
// It runs asynchronously and only logs failures.
func SendSecurityNotice(to, subject, body string) {
	if !smtpConfigured() {
		log.Printf("SMTP not configured, skipping security notice %q for %s", subject, to)
		return
	}
	go func() {
		host := config.Config("SMTP_HOST")
		e := email.NewEmail()
		e.From = config.ConfigOr("SMTP_FROM", config.Config("SMTP_USERNAME"))
		e.To = []string{to}
		e.Subject = subject
		e.Text = []byte(body)
		addr := fmt.Sprintf("%s:%d", host, config.Int("SMTP_PORT", 587))
		auth := smtp.PlainAuth("", config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"), host)
		if err := e.Send(addr, auth); err != nil {
			log.Printf("failed to send security notice to %s: %v", to, err)
		}
	}()
}

// SMTPMailer exposes the mail helpers as a value the auth service can hold.
type SMTPMailer struct{}

func (SMTPMailer) SendPasswordReset(to, resetLink string) error {
	return SendPasswordResetEmail(to, resetLink)
}

func (SMTPMailer) SendSecurityNotice(to, subject, body string) {
	SendSecurityNotice(to, subject, body)
}
