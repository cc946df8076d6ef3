package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/mailer"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/pkg/auth"
	"github.com/summitops/conference-api/pkg/config"
	"github.com/summitops/conference-api/pkg/events"
	"github.com/summitops/conference-api/pkg/logger"
)

const (
	tempPasswordLength  = 12
	tempPasswordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
)

// CredentialResult reports a create/reset outcome. TempPassword is only
// populated when the credential email could not be delivered, so an admin
// can hand it over manually.
type CredentialResult struct {
	Staff        *domain.Staff
	TempPassword string
	EmailFailed  bool
}

type LoginResult struct {
	AccessToken string        `json:"accessToken"`
	ExpiresIn   int64         `json:"expiresIn"`
	Staff       *domain.Staff `json:"staff"`
}

type StaffService interface {
	Create(ctx context.Context, req *domain.CreateStaffRequest) (*CredentialResult, error)
	Get(ctx context.Context, id string) (*domain.Staff, error)
	List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Staff, error)
	Update(ctx context.Context, id string, req *domain.UpdateStaffRequest) (*domain.Staff, error)
	Deactivate(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id string) (*CredentialResult, error)
	Login(ctx context.Context, req *domain.StaffLoginRequest) (*LoginResult, error)
}

type staffService struct {
	staffRepo repository.StaffRepository
	mailer    mailer.Service
	eventBus  events.Publisher
	config    *config.Config
}

func NewStaffService(staffRepo repository.StaffRepository, m mailer.Service, eventBus events.Publisher, cfg *config.Config) StaffService {
	return &staffService{
		staffRepo: staffRepo,
		mailer:    m,
		eventBus:  eventBus,
		config:    cfg,
	}
}

func (s *staffService) Create(ctx context.Context, req *domain.CreateStaffRequest) (*CredentialResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.staffRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing staff: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := argon2id.CreateHash(tempPassword, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff, err := s.staffRepo.Create(ctx, req, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	event := events.StaffCreatedEvent{
		StaffID:   staff.ID,
		Email:     staff.Email,
		Role:      string(staff.Role),
		CreatedAt: staff.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.StaffCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish staff created event", "error", err, "staff_id", staff.ID)
	}

	return s.deliverCredentials(ctx, staff, tempPassword), nil
}

func (s *staffService) ResetPassword(ctx context.Context, id string) (*CredentialResult, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := argon2id.CreateHash(tempPassword, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The old hash is invalidated here, before the email goes out.
	if err := s.staffRepo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	event := events.StaffPasswordResetEvent{
		StaffID: staff.ID,
		Email:   staff.Email,
		ResetAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.StaffPasswordReset, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish password reset event", "error", err, "staff_id", staff.ID)
	}

	return s.deliverCredentials(ctx, staff, tempPassword), nil
}

// deliverCredentials emails the temp password. Delivery failure does not
// fail the operation: the caller hands the plaintext back to the admin
// instead of losing the only copy.
func (s *staffService) deliverCredentials(ctx context.Context, staff *domain.Staff, tempPassword string) *CredentialResult {
	result := &CredentialResult{Staff: staff}

	name := staff.FirstName + " " + staff.LastName
	if err := s.mailer.SendStaffCredentials(staff.Email, name, tempPassword); err != nil {
		logger.ErrorContext(ctx, "Failed to send credential email", "error", err, "staff_id", staff.ID)
		result.EmailFailed = true
		result.TempPassword = tempPassword
	}

	return result
}

func (s *staffService) Get(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	return staff, nil
}

func (s *staffService) List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Staff, error) {
	return s.staffRepo.List(ctx, isActive, limit, offset)
}

func (s *staffService) Update(ctx context.Context, id string, req *domain.UpdateStaffRequest) (*domain.Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	staff, err := s.staffRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	return staff, nil
}

func (s *staffService) Deactivate(ctx context.Context, id string) error {
	ok, err := s.staffRepo.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate staff member: %w", err)
	}
	if !ok {
		return domain.ErrStaffNotFound
	}

	if err := s.eventBus.Publish(ctx, events.StaffDeactivated, map[string]string{"staff_id": id}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish staff deactivated event", "error", err, "staff_id", id)
	}
	return nil
}

func (s *staffService) Login(ctx context.Context, req *domain.StaffLoginRequest) (*LoginResult, error) {
	req.Normalize()

	staff, err := s.staffRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}
	if staff == nil {
		return nil, domain.ErrInvalidLogin
	}
	if !staff.IsActive {
		return nil, domain.ErrStaffInactive
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, staff.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidLogin
	}

	token, err := auth.NewAccessToken(staff.ID, staff.Email, string(staff.Role), s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	if err := s.staffRepo.TouchLastLogin(ctx, staff.ID); err != nil {
		logger.WarnContext(ctx, "Failed to record last login", "error", err, "staff_id", staff.ID)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Auth.AccessTokenTTL.Seconds()),
		Staff:       staff,
	}, nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}
