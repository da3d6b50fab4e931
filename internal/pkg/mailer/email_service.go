// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTrialEndingReminder(toEmail, planName string, daysRemaining int) error
	SendCheckoutReminder(toEmail, planName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	frontendURL := os.Getenv("CLIENT_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendTrialEndingReminder(toEmail, planName string, daysRemaining int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your %s trial ends in %d days", planName, daysRemaining))

	upgradeLink := fmt.Sprintf("%s/billing/upgrade", s.frontendURL)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s trial is ending soon</h2>
			<p>You have %d days left. Subscribe now to keep unlimited analyses and premium features.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Keep my plan</a>
		</div>
	`, planName, daysRemaining, upgradeLink)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendCheckoutReminder(toEmail, planName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Finish your upgrade")

	checkoutLink := fmt.Sprintf("%s/billing/checkout", s.frontendURL)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your %s upgrade is waiting</h2>
			<p>You started a checkout but didn't finish. It takes under a minute to complete.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Complete checkout</a>
		</div>
	`, planName, checkoutLink)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}
