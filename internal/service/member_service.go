package service

import (
	"context"
	"fmt"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/internal/utils"
	"github.com/summitops/conference-api/pkg/events"
	"github.com/summitops/conference-api/pkg/logger"
)

type MemberService interface {
	Subscribe(ctx context.Context, email string) (*domain.Member, error)
	Unsubscribe(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Member, error)
}

type memberService struct {
	memberRepo repository.MemberRepository
	eventBus   events.Publisher
}

func NewMemberService(memberRepo repository.MemberRepository, eventBus events.Publisher) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		eventBus:   eventBus,
	}
}

func (s *memberService) Subscribe(ctx context.Context, email string) (*domain.Member, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrValidation)
	}

	member, err := s.memberRepo.Subscribe(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe member: %w", err)
	}

	event := events.MemberSubscribedEvent{
		Email:        member.Email,
		SubscribedAt: member.SubscribedAt,
	}
	if err := s.eventBus.Publish(ctx, events.MemberSubscribed, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish member subscribed event", "error", err, "email", member.Email)
	}

	return member, nil
}

func (s *memberService) Unsubscribe(ctx context.Context, email string) (bool, error) {
	email = utils.NormalizeEmail(email)

	ok, err := s.memberRepo.Unsubscribe(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe member: %w", err)
	}

	if ok {
		if err := s.eventBus.Publish(ctx, events.MemberUnsubscribed, map[string]string{"email": email}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish member unsubscribed event", "error", err, "email", email)
		}
	}

	return ok, nil
}

func (s *memberService) List(ctx context.Context, limit, offset int) ([]domain.Member, error) {
	return s.memberRepo.List(ctx, limit, offset)
}
