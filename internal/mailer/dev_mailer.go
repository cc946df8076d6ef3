package mailer

import (
	"github.com/summitops/conference-api/pkg/logger"
)

// DevMailer logs outbound mail instead of sending it. Used whenever no
// MailerSend key is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendOrderConfirmation(toEmail, toName, orderID string, totalAmount int64, currency string) error {
	logger.Info("[DEV MAIL] Order confirmation",
		"to", toEmail,
		"name", toName,
		"order_id", orderID,
		"total_amount", totalAmount,
		"currency", currency,
	)
	return nil
}

func (d *DevMailer) SendStaffCredentials(toEmail, toName, tempPassword string) error {
	logger.Info("[DEV MAIL] Staff credentials",
		"to", toEmail,
		"name", toName,
		"temp_password", tempPassword,
	)
	return nil
}

func (d *DevMailer) SendRetryPayment(toEmail, toName, retryURL string) error {
	logger.Info("[DEV MAIL] Retry payment",
		"to", toEmail,
		"name", toName,
		"retry_url", retryURL,
	)
	return nil
}

func (d *DevMailer) SendScholarshipConfirmation(toEmail, toName, ticketType string) error {
	logger.Info("[DEV MAIL] Scholarship confirmation",
		"to", toEmail,
		"name", toName,
		"ticket_type", ticketType,
	)
	return nil
}
