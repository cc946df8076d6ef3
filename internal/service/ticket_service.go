package service

import (
	"context"
	"fmt"
	"time"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/mailer"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/pkg/events"
	"github.com/summitops/conference-api/pkg/logger"
)

type TicketService interface {
	IssueScholarship(ctx context.Context, req *domain.ScholarshipRequest) (*domain.ScholarshipTicket, error)
	ListScholarships(ctx context.Context, limit, offset int) ([]domain.ScholarshipTicket, error)
}

type ticketService struct {
	ticketRepo repository.TicketRepository
	mailer     mailer.Service
	eventBus   events.Publisher
}

func NewTicketService(ticketRepo repository.TicketRepository, m mailer.Service, eventBus events.Publisher) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		mailer:     m,
		eventBus:   eventBus,
	}
}

func (s *ticketService) IssueScholarship(ctx context.Context, req *domain.ScholarshipRequest) (*domain.ScholarshipTicket, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.ticketRepo.FindScholarshipByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing scholarship: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	// The unique index still backstops a concurrent duplicate request.
	ticket, err := s.ticketRepo.CreateScholarship(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Scholarship ticket issued", "ticket_id", ticket.ID, "ticket_type", ticket.TicketType)

	if err := s.mailer.SendScholarshipConfirmation(ticket.CustomerEmail, ticket.CustomerName, string(ticket.TicketType)); err != nil {
		logger.ErrorContext(ctx, "Failed to send scholarship confirmation", "error", err, "ticket_id", ticket.ID)
	}

	event := events.ScholarshipIssuedEvent{
		TicketID:      ticket.ID,
		CustomerEmail: ticket.CustomerEmail,
		TicketType:    string(ticket.TicketType),
		IssuedAt:      time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.ScholarshipIssued, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish scholarship issued event", "error", err, "ticket_id", ticket.ID)
	}

	return ticket, nil
}

func (s *ticketService) ListScholarships(ctx context.Context, limit, offset int) ([]domain.ScholarshipTicket, error) {
	return s.ticketRepo.ListScholarships(ctx, limit, offset)
}
