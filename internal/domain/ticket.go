package domain

import (
	"fmt"
	"strings"
	"time"
)

type TicketType string

const (
	TicketStudents   TicketType = "STUDENTS"
	TicketIndividual TicketType = "INDIVIDUAL"
	TicketCorporate  TicketType = "CORPORATE"
)

func ParseTicketType(s string) (TicketType, bool) {
	switch TicketType(s) {
	case TicketStudents, TicketIndividual, TicketCorporate:
		return TicketType(s), true
	default:
		return "", false
	}
}

// ScholarshipTicket is a zero-cost ticket issued administratively,
// bypassing the payment flow.
type ScholarshipTicket struct {
	ID            string     `json:"id"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	CustomerPhone string     `json:"customerPhone"`
	TicketType    TicketType `json:"ticketType"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type ScholarshipRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	TicketType    string `json:"ticketType"`
	Notes         string `json:"notes,omitempty"`
}

func (r *ScholarshipRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.TicketType = strings.ToUpper(strings.TrimSpace(r.TicketType))
}

func (r *ScholarshipRequest) Validate() error {
	if r.CustomerName == "" {
		return fmt.Errorf("customerName is required")
	}
	if r.CustomerEmail == "" || !strings.Contains(r.CustomerEmail, "@") {
		return fmt.Errorf("valid customerEmail is required")
	}
	if r.CustomerPhone == "" {
		return fmt.Errorf("customerPhone is required")
	}
	if _, ok := ParseTicketType(r.TicketType); !ok {
		return fmt.Errorf("ticketType must be one of STUDENTS, INDIVIDUAL, CORPORATE")
	}
	return nil
}
