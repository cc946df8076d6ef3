package mailer

type Service interface {
	SendOrderConfirmation(toEmail, toName, orderID string, totalAmount int64, currency string) error
	SendStaffCredentials(toEmail, toName, tempPassword string) error
	SendRetryPayment(toEmail, toName, retryURL string) error
	SendScholarshipConfirmation(toEmail, toName, ticketType string) error
}
