package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendOrderConfirmation(toEmail, toName, orderID string, totalAmount int64, currency string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	amount := fmt.Sprintf("%.2f %s", float64(totalAmount)/100, currency)
	subject := "Your order is confirmed"
	html := fmt.Sprintf(`
		<h2>Thank you for your purchase!</h2>
		<p>Hi %s,</p>
		<p>Your payment for order <strong>%s</strong> has been received.</p>
		<p>Total: <strong>%s</strong></p>
		<p>Bring this confirmation with you on check-in day. See you at the conference!</p>
	`, toName, orderID, amount)

	text := fmt.Sprintf("Hi %s, your payment for order %s (%s) has been received. See you at the conference!", toName, orderID, amount)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendStaffCredentials(toEmail, toName, tempPassword string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your check-in dashboard account"
	html := fmt.Sprintf(`
		<h2>Welcome to the team, %s!</h2>
		<p>A check-in account has been created for you.</p>
		<p>Temporary password: <strong style="font-size: 20px;">%s</strong></p>
		<p>Sign in with this email address and change your password after first login.</p>
	`, toName, tempPassword)

	text := fmt.Sprintf("Your check-in account is ready. Temporary password: %s\n\nSign in with this email address and change your password after first login.", tempPassword)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendRetryPayment(toEmail, toName, retryURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Complete your ticket purchase"
	html := fmt.Sprintf(`
		<h2>Your ticket is still waiting</h2>
		<p>Hi %s,</p>
		<p>We noticed your ticket payment didn't go through. Your spot is still available.</p>
		<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Complete Payment</a></p>
	`, toName, retryURL)

	text := fmt.Sprintf("Hi %s, your ticket payment didn't go through. Complete it here: %s", toName, retryURL)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendScholarshipConfirmation(toEmail, toName, ticketType string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your scholarship ticket is confirmed"
	html := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>Your scholarship ticket (<strong>%s</strong>) has been issued.</p>
		<p>Present this email at the front desk on check-in day.</p>
	`, toName, ticketType)

	text := fmt.Sprintf("Congratulations %s! Your scholarship ticket (%s) has been issued. Present this email at the front desk on check-in day.", toName, ticketType)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
