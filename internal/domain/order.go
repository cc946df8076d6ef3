package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderFailed     OrderStatus = "FAILED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderCompleted, OrderFailed, OrderCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// IsTerminal reports whether no webhook event may transition the order
// out of this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderFailed || s == OrderCancelled
}

// Order is a merchandise purchase tracked through the payment lifecycle.
// Amounts are minor currency units.
type Order struct {
	ID                   string      `json:"id"`
	Status               OrderStatus `json:"status"`
	TotalAmount          int64       `json:"total_amount"`
	Currency             string      `json:"currency"`
	CustomerName         string      `json:"customer_name"`
	CustomerEmail        string      `json:"customer_email"`
	CustomerPhone        string      `json:"customer_phone"`
	ModemPayChargeID     *string     `json:"modem_pay_charge_id,omitempty"`
	TransactionReference *string     `json:"transaction_reference,omitempty"`
	PaymentMethod        *string     `json:"payment_method,omitempty"`
	PaidAt               *time.Time  `json:"paid_at,omitempty"`
	Items                []OrderItem `json:"items,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    string `json:"order_id"`
	ProductRef string `json:"product_ref"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Subtotal   int64  `json:"subtotal"`
}

// PaymentAttachment carries the correlation fields a webhook event pins
// onto an order.
type PaymentAttachment struct {
	ChargeID             string
	TransactionReference string
	PaymentMethod        string
}
