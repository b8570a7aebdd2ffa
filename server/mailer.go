package server

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/existflow/taskdeck/internal/logger"
)

// Mailer delivers verification emails. The SMTP implementation is used
// in production; without SMTP configuration the dev mailer logs the
// code instead.
type Mailer interface {
	SendOTP(email, name, otp string) error
}

// NewMailerFromEnv builds a mailer from SMTP_* environment variables,
// falling back to the log-only dev mailer
func NewMailerFromEnv() Mailer {
	addr := os.Getenv("SMTP_ADDR")
	if addr == "" {
		return devMailer{}
	}
	return &smtpMailer{
		addr:     addr,
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		host:     hostOf(addr),
	}
}

type smtpMailer struct {
	addr     string
	host     string
	from     string
	username string
	password string
}

func (m *smtpMailer) SendOTP(email, name, otp string) error {
	body := fmt.Sprintf(
		"To: %s\r\nSubject: Taskdeck - Email Verification OTP\r\n\r\n"+
			"Hello %s!\r\n\r\n"+
			"Please use the following code to verify your email address:\r\n\r\n"+
			"    %s\r\n\r\n"+
			"This code expires in 10 minutes. If you didn't request it, ignore this email.\r\n",
		email, name, otp,
	)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

func hostOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}

// devMailer logs the OTP instead of sending mail
type devMailer struct{}

func (devMailer) SendOTP(email, name, otp string) error {
	logger.Info("OTP issued (dev mailer)", logger.F("email", email), logger.F("otp", otp))
	return nil
}
