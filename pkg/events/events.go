package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/summitops/conference-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	// Order events
	OrderCompleted = "order.completed"
	OrderFailed    = "order.failed"
	OrderCanceled  = "order.canceled"

	// Staff events
	StaffCreated       = "staff.created"
	StaffPasswordReset = "staff.password_reset"
	StaffDeactivated   = "staff.deactivated"

	// Ticket events
	ScholarshipIssued = "ticket.scholarship_issued"

	// Newsletter events
	MemberSubscribed   = "member.subscribed"
	MemberUnsubscribed = "member.unsubscribed"
)

// Event payloads
type OrderCompletedEvent struct {
	OrderID              string    `json:"order_id"`
	CustomerEmail        string    `json:"customer_email"`
	CustomerName         string    `json:"customer_name"`
	TotalAmount          int64     `json:"total_amount"`
	Currency             string    `json:"currency"`
	ChargeID             string    `json:"charge_id"`
	TransactionReference string    `json:"transaction_reference"`
	PaymentMethod        string    `json:"payment_method"`
	PaidAt               time.Time `json:"paid_at"`
}

type OrderFailedEvent struct {
	OrderID  string `json:"order_id"`
	ChargeID string `json:"charge_id"`
	Reason   string `json:"reason"`
}

type OrderCanceledEvent struct {
	OrderID  string `json:"order_id"`
	ChargeID string `json:"charge_id"`
}

type StaffCreatedEvent struct {
	StaffID   string    `json:"staff_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type StaffPasswordResetEvent struct {
	StaffID string    `json:"staff_id"`
	Email   string    `json:"email"`
	ResetAt time.Time `json:"reset_at"`
}

type ScholarshipIssuedEvent struct {
	TicketID      string    `json:"ticket_id"`
	CustomerEmail string    `json:"customer_email"`
	TicketType    string    `json:"ticket_type"`
	IssuedAt      time.Time `json:"issued_at"`
}

type MemberSubscribedEvent struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
