package notifications

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// SMTPConfig groups mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AppName  string
	BaseURL  string
}

// EmailServiceImpl implements domain.Mailer over plain SMTP.
type EmailServiceImpl struct {
	config SMTPConfig
	log    *zap.Logger
}

// NewEmailService creates a new SMTP mailer
func NewEmailService(config SMTPConfig, log *zap.Logger) domain.Mailer {
	return &EmailServiceImpl{config: config, log: log}
}

// send handles the SMTP handshake and delivery. Headers use CRLF per
// RFC 822, with a blank line separating headers from body.
func (e *EmailServiceImpl) send(to, subject, body string) error {
	// Without credentials, log the delivery instead of sending. Local
	// development runs without an SMTP account.
	if e.config.User == "" {
		e.log.Info("mock email delivery", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	headers := []string{
		fmt.Sprintf("From: %s", e.config.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}
	message := strings.Join(headers, "\r\n")

	auth := smtp.PlainAuth("", e.config.User, e.config.Password, e.config.Host)
	if err := smtp.SendMail(addr, auth, e.config.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendActivationEmail implements domain.Mailer
func (e *EmailServiceImpl) SendActivationEmail(to, username, token string) error {
	subject := fmt.Sprintf("%s - Activate your account", e.config.AppName)
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", e.config.BaseURL, token)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Welcome to %s! Please activate your account by following this link:\n\n"+
			"%s\n\n"+
			"If you did not create this account, you can ignore this message.\n\n"+
			"Best regards,\nThe %s Team",
		username, e.config.AppName, link, e.config.AppName)
	return e.send(to, subject, body)
}

// SendOTPEmail implements domain.Mailer
func (e *EmailServiceImpl) SendOTPEmail(to, username, code string) error {
	subject := fmt.Sprintf("%s - Your login verification code", e.config.AppName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Use the verification code below to finish logging in to %s:\n\n"+
			"Login Code: %s\n\n"+
			"This code expires in 10 minutes. If you did not request this login, "+
			"we recommend changing your password.\n\n"+
			"Best regards,\nThe %s Team",
		username, e.config.AppName, code, e.config.AppName)
	return e.send(to, subject, body)
}

// SendWelcomeEmail implements domain.Mailer
func (e *EmailServiceImpl) SendWelcomeEmail(to, username string) error {
	subject := fmt.Sprintf("Welcome to %s!", e.config.AppName)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your account is ready. Start tracking your games, build your wishlist "+
			"and connect with friends.\n\n"+
			"Best regards,\nThe %s Team",
		username, e.config.AppName)
	return e.send(to, subject, body)
}

// SendPasswordResetEmail implements domain.Mailer
func (e *EmailServiceImpl) SendPasswordResetEmail(to, username, token string) error {
	subject := fmt.Sprintf("%s - Password reset request", e.config.AppName)
	link := fmt.Sprintf("%s/reset-password?token=%s", e.config.BaseURL, token)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received a request to reset your password. Follow this link to "+
			"choose a new one:\n\n"+
			"%s\n\n"+
			"The link expires in 1 hour. If you did not request a reset, you can "+
			"ignore this message.\n\n"+
			"Best regards,\nThe %s Team",
		username, link, e.config.AppName)
	return e.send(to, subject, body)
}
