package service

import (
	"context"
	"fmt"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/mailer"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/internal/webhook"
	"github.com/summitops/conference-api/pkg/events"
	"github.com/summitops/conference-api/pkg/logger"
)

type OrderService interface {
	// HandleWebhookEvent applies one provider event to one order. A nil
	// return means the provider should stop retrying, including for
	// duplicate and unrecognized deliveries.
	HandleWebhookEvent(ctx context.Context, ev webhook.Event) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, limit, offset int, status *domain.OrderStatus) ([]domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	mailer    mailer.Service
	eventBus  events.Publisher
}

func NewOrderService(orderRepo repository.OrderRepository, m mailer.Service, eventBus events.Publisher) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		mailer:    m,
		eventBus:  eventBus,
	}
}

func (s *orderService) HandleWebhookEvent(ctx context.Context, ev webhook.Event) error {
	switch e := ev.(type) {
	case webhook.SucceededEvent:
		return s.handleSucceeded(ctx, e.Payload)
	case webhook.FailedEvent:
		return s.handleTerminal(ctx, e.Payload, domain.OrderFailed)
	case webhook.CancelledEvent:
		return s.handleTerminal(ctx, e.Payload, domain.OrderCancelled)
	case webhook.UnknownEvent:
		logger.WarnContext(ctx, "Ignoring unrecognized webhook event", "event_type", e.Type, "charge_id", e.Payload.ID)
		return nil
	default:
		logger.WarnContext(ctx, "Ignoring webhook event with no handler")
		return nil
	}
}

func (s *orderService) handleSucceeded(ctx context.Context, p webhook.Payload) error {
	orderID := p.OrderID()
	if orderID == "" {
		return fmt.Errorf("%w: charge %s carries no order id", domain.ErrOrderNotFound, p.ID)
	}

	att := domain.PaymentAttachment{
		ChargeID:             p.ID,
		TransactionReference: p.TransactionReference,
		PaymentMethod:        p.PaymentMethod,
	}

	order, updated, err := s.orderRepo.MarkCompleted(ctx, orderID, att)
	if err != nil {
		return fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	if !updated {
		// Duplicate delivery: the conditional update matched no row, so
		// neither the confirmation email nor the event fires again.
		logger.InfoContext(ctx, "Duplicate charge.succeeded delivery ignored", "order_id", orderID, "charge_id", p.ID)
		return nil
	}

	logger.InfoContext(ctx, "Order completed", "order_id", order.ID, "charge_id", p.ID, "amount", order.TotalAmount)

	// The transition is committed; everything below is best-effort.
	if err := s.mailer.SendOrderConfirmation(order.CustomerEmail, order.CustomerName, order.ID, order.TotalAmount, order.Currency); err != nil {
		logger.ErrorContext(ctx, "Failed to send order confirmation email", "error", err, "order_id", order.ID)
	}

	event := events.OrderCompletedEvent{
		OrderID:              order.ID,
		CustomerEmail:        order.CustomerEmail,
		CustomerName:         order.CustomerName,
		TotalAmount:          order.TotalAmount,
		Currency:             order.Currency,
		ChargeID:             p.ID,
		TransactionReference: p.TransactionReference,
		PaymentMethod:        p.PaymentMethod,
		PaidAt:               *order.PaidAt,
	}
	if err := s.eventBus.Publish(ctx, events.OrderCompleted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish order completed event", "error", err, "order_id", order.ID)
	}

	return nil
}

func (s *orderService) handleTerminal(ctx context.Context, p webhook.Payload, status domain.OrderStatus) error {
	orderID := p.OrderID()
	if orderID == "" {
		logger.WarnContext(ctx, "Charge event carries no order id, nothing to update", "charge_id", p.ID, "status", status)
		return nil
	}

	att := domain.PaymentAttachment{
		ChargeID:             p.ID,
		TransactionReference: p.TransactionReference,
	}

	var (
		updated bool
		err     error
	)
	if status == domain.OrderFailed {
		updated, err = s.orderRepo.MarkFailed(ctx, orderID, att)
	} else {
		updated, err = s.orderRepo.MarkCancelled(ctx, orderID, att)
	}
	if err != nil {
		return fmt.Errorf("failed to mark order %s %s: %w", orderID, status, err)
	}
	if !updated {
		logger.InfoContext(ctx, "Charge event matched no updatable order", "order_id", orderID, "status", status)
		return nil
	}

	logger.InfoContext(ctx, "Order transitioned", "order_id", orderID, "status", status, "charge_id", p.ID)

	subject := events.OrderFailed
	var payload interface{} = events.OrderFailedEvent{OrderID: orderID, ChargeID: p.ID, Reason: p.Status}
	if status == domain.OrderCancelled {
		subject = events.OrderCanceled
		payload = events.OrderCanceledEvent{OrderID: orderID, ChargeID: p.ID}
	}
	if err := s.eventBus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish order event", "error", err, "order_id", orderID, "subject", subject)
	}

	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	items, err := s.orderRepo.ItemsByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	order.Items = items

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int, status *domain.OrderStatus) ([]domain.Order, error) {
	return s.orderRepo.List(ctx, limit, offset, status)
}
