package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"
)

// EmailSender is the blocking delivery layer underneath the Notifier. The
// MailDispatcher is the only caller.
type EmailSender interface {
	SendOTPEmail(to string, name string, code string, isRegistration bool) error
	SendPasswordResetEmail(to string, name string, token string) error
}

type ResendMailer struct {
	Client     *resend.Client
	From       string
	AppName    string
	AppBaseURL string
	ResetPath  string
}

func NewResendMailer(apiKey string, from string, appName string, appBaseURL string) *ResendMailer {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendMailer{}
	}
	return &ResendMailer{
		Client:     resend.NewClient(apiKey),
		From:       from,
		AppName:    appName,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		ResetPath:  "/reset-password",
	}
}

func (m *ResendMailer) SendOTPEmail(to string, name string, code string, isRegistration bool) error {
	if m.Client == nil {
		return errors.New("email sender not configured")
	}
	greeting := name
	if strings.TrimSpace(greeting) == "" {
		greeting = "there"
	}
	app := m.appName()
	subject := app + " verification code"
	intro := fmt.Sprintf("Hi %s, use the one-time passcode below to verify your account. The code expires in 15 minutes.", greeting)
	if isRegistration {
		subject = "Welcome to " + app + " - enter your verification code"
		intro = fmt.Sprintf("Hi %s, thank you for registering. Enter the verification code below in the %s application to finish setting up your account.", greeting, app)
	}
	html := fmt.Sprintf(
		"<p>%s</p><p style=\"font-size:32px;letter-spacing:0.4em;font-weight:bold\">%s</p><p>Never share this code with anyone. If you didn't create this account, you can safely ignore this message.</p>",
		intro, code,
	)
	text := fmt.Sprintf("%s\n\nYour verification code: %s", intro, code)
	return m.send(to, subject, html, text)
}

func (m *ResendMailer) SendPasswordResetEmail(to string, name string, token string) error {
	if m.Client == nil {
		return errors.New("email sender not configured")
	}
	greeting := name
	if strings.TrimSpace(greeting) == "" {
		greeting = "there"
	}
	link := m.resetLink(token)
	subject := "Reset your " + m.appName() + " password"
	html := fmt.Sprintf(
		"<p>Hi %s, a password reset was requested for your account. The link below expires in 60 minutes.</p><p><a href=\"%s\">Reset Password</a></p><p>If you didn't request this, you can ignore this message.</p>",
		greeting, link,
	)
	text := fmt.Sprintf("Hi %s, reset your password: %s", greeting, link)
	return m.send(to, subject, html, text)
}

func (m *ResendMailer) resetLink(token string) string {
	if m.AppBaseURL == "" {
		return token
	}
	return fmt.Sprintf("%s%s?token=%s", m.AppBaseURL, m.ResetPath, token)
}

func (m *ResendMailer) appName() string {
	if strings.TrimSpace(m.AppName) == "" {
		return "OpsVault"
	}
	return m.AppName
}

func (m *ResendMailer) send(to string, subject string, html string, text string) error {
	_, err := m.Client.Emails.Send(&resend.SendEmailRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	return err
}
