package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/mailer"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/pkg/config"
	"github.com/summitops/conference-api/pkg/logger"
)

const (
	defaultLookbackDays  = 7
	maxLookbackDays      = 90
	followUpMailParallel = 5
)

// followUpStatuses are the orders worth chasing: payments that never
// arrived or fell through.
var followUpStatuses = []domain.OrderStatus{
	domain.OrderPending,
	domain.OrderFailed,
	domain.OrderCancelled,
}

type FollowUpRequest struct {
	TicketIDs []string `json:"ticketIds,omitempty"`
	SendToAll bool     `json:"sendToAll,omitempty"`
	Days      int      `json:"days,omitempty"`
}

type FollowUpResult struct {
	TotalMatched int `json:"totalMatched"`
	EmailsSent   int `json:"emailsSent"`
	EmailsFailed int `json:"emailsFailed"`
}

type FollowUpService interface {
	ListCandidates(ctx context.Context, days int) ([]domain.Order, error)
	SendRetryEmails(ctx context.Context, req *FollowUpRequest) (*FollowUpResult, error)
}

type followUpService struct {
	orderRepo repository.OrderRepository
	mailer    mailer.Service
	config    *config.Config
}

func NewFollowUpService(orderRepo repository.OrderRepository, m mailer.Service, cfg *config.Config) FollowUpService {
	return &followUpService{
		orderRepo: orderRepo,
		mailer:    m,
		config:    cfg,
	}
}

func (s *followUpService) ListCandidates(ctx context.Context, days int) ([]domain.Order, error) {
	since := time.Now().AddDate(0, 0, -clampDays(days))
	return s.orderRepo.ListByStatusesSince(ctx, followUpStatuses, since)
}

func (s *followUpService) SendRetryEmails(ctx context.Context, req *FollowUpRequest) (*FollowUpResult, error) {
	var (
		orders []domain.Order
		err    error
	)
	if req.SendToAll {
		orders, err = s.ListCandidates(ctx, req.Days)
	} else {
		orders, err = s.orderRepo.GetByIDs(ctx, req.TicketIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load follow-up candidates: %w", err)
	}

	// Orders that completed since selection are skipped rather than nagged.
	candidates := orders[:0]
	for _, o := range orders {
		if o.Status != domain.OrderCompleted {
			candidates = append(candidates, o)
		}
	}

	result := &FollowUpResult{TotalMatched: len(candidates)}
	if len(candidates) == 0 {
		return result, nil
	}

	var sent, failed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(followUpMailParallel)

	for _, order := range candidates {
		order := order
		g.Go(func() error {
			retryURL := fmt.Sprintf("%s/checkout/retry?orderId=%s", s.config.Site.BaseURL, order.ID)
			if err := s.mailer.SendRetryPayment(order.CustomerEmail, order.CustomerName, retryURL); err != nil {
				logger.ErrorContext(gctx, "Failed to send retry-payment email", "error", err, "order_id", order.ID)
				atomic.AddInt64(&failed, 1)
				return nil
			}
			atomic.AddInt64(&sent, 1)
			return nil
		})
	}

	// Send errors are counted, not propagated, so Wait cannot fail here.
	_ = g.Wait()

	result.EmailsSent = int(sent)
	result.EmailsFailed = int(failed)

	logger.InfoContext(ctx, "Follow-up campaign finished",
		"total_matched", result.TotalMatched,
		"emails_sent", result.EmailsSent,
		"emails_failed", result.EmailsFailed,
	)

	return result, nil
}

func clampDays(days int) int {
	if days <= 0 {
		return defaultLookbackDays
	}
	if days > maxLookbackDays {
		return maxLookbackDays
	}
	return days
}
