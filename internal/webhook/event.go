// Package webhook decodes ModemPay provider notifications into a closed
// set of typed events for the order transition handler.
package webhook

import (
	"encoding/json"
	"fmt"
)

const (
	EventChargeSucceeded = "charge.succeeded"
	EventChargeFailed    = "charge.failed"
	EventChargeCancelled = "charge.cancelled"
)

// Envelope is the raw provider notification body.
type Envelope struct {
	Event   string  `json:"event"`
	Payload Payload `json:"payload"`
}

// Payload carries the charge details. Only a subset of the provider's
// fields matters here; the rest is decoded for logging completeness.
type Payload struct {
	ID                   string            `json:"id"`
	Type                 string            `json:"type"`
	Amount               int64             `json:"amount"`
	Currency             string            `json:"currency"`
	PaymentMethod        string            `json:"payment_method"`
	Customer             string            `json:"customer"`
	Metadata             map[string]string `json:"metadata"`
	Status               string            `json:"status"`
	BusinessID           string            `json:"business_id"`
	AccountID            string            `json:"account_id"`
	TestMode             bool              `json:"test_mode"`
	CustomerName         string            `json:"customer_name"`
	CustomerPhone        string            `json:"customer_phone"`
	CustomerEmail        string            `json:"customer_email"`
	PaymentAccount       string            `json:"payment_account"`
	PaymentIntentID      string            `json:"payment_intent_id"`
	TransactionReference string            `json:"transaction_reference"`
	PaymentMethodID      string            `json:"payment_method_id"`
}

// OrderID extracts the originating order id from charge metadata.
func (p *Payload) OrderID() string {
	return p.Metadata["orderId"]
}

// Event is one of SucceededEvent, FailedEvent, CancelledEvent or
// UnknownEvent.
type Event interface {
	eventType() string
}

type SucceededEvent struct{ Payload Payload }
type FailedEvent struct{ Payload Payload }
type CancelledEvent struct{ Payload Payload }

// UnknownEvent covers event types outside the charge set; they are
// acknowledged but not acted on.
type UnknownEvent struct {
	Type    string
	Payload Payload
}

func (SucceededEvent) eventType() string { return EventChargeSucceeded }
func (FailedEvent) eventType() string    { return EventChargeFailed }
func (CancelledEvent) eventType() string { return EventChargeCancelled }
func (e UnknownEvent) eventType() string { return e.Type }

// MalformedPayloadError reports an unparseable notification body.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed webhook payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// Parse decodes a raw request body into a typed event.
func Parse(body []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}
	if env.Event == "" {
		return nil, &MalformedPayloadError{Err: fmt.Errorf("missing event discriminator")}
	}

	switch env.Event {
	case EventChargeSucceeded:
		return SucceededEvent{Payload: env.Payload}, nil
	case EventChargeFailed:
		return FailedEvent{Payload: env.Payload}, nil
	case EventChargeCancelled:
		return CancelledEvent{Payload: env.Payload}, nil
	default:
		return UnknownEvent{Type: env.Event, Payload: env.Payload}, nil
	}
}
