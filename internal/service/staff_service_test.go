package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/service"
	"github.com/summitops/conference-api/pkg/auth"
	"github.com/summitops/conference-api/pkg/config"
)

type mockStaffRepo struct {
	staff map[string]*domain.Staff // id -> staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*domain.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, req *domain.CreateStaffRequest, passwordHash string) (*domain.Staff, error) {
	s := &domain.Staff{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.StaffRole(req.Role),
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.staff[s.ID] = s
	return s, nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockStaffRepo) FindByEmail(_ context.Context, email string) (*domain.Staff, error) {
	for _, s := range m.staff {
		if s.Email == strings.ToLower(email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStaffRepo) List(_ context.Context, isActive *bool, limit, offset int) ([]domain.Staff, error) {
	var result []domain.Staff
	for _, s := range m.staff {
		if isActive != nil && s.IsActive != *isActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStaffRepo) Update(_ context.Context, id string, req *domain.UpdateStaffRequest) (*domain.Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	if req.FirstName != nil {
		s.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		s.LastName = *req.LastName
	}
	if req.Role != nil {
		s.Role = domain.StaffRole(strings.ToUpper(*req.Role))
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	cp := *s
	return &cp, nil
}

func (m *mockStaffRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	s, ok := m.staff[id]
	if !ok {
		return domain.ErrStaffNotFound
	}
	s.PasswordHash = passwordHash
	return nil
}

func (m *mockStaffRepo) Deactivate(_ context.Context, id string) (bool, error) {
	s, ok := m.staff[id]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	return true, nil
}

func (m *mockStaffRepo) TouchLastLogin(_ context.Context, id string) error {
	if s, ok := m.staff[id]; ok {
		now := time.Now()
		s.LastLoginAt = &now
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
		},
		Site: config.SiteConfig{BaseURL: "https://conf.example.com"},
	}
}

func createRequest(email string) *domain.CreateStaffRequest {
	return &domain.CreateStaffRequest{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Mbeki",
		Role:      "FRONTDESK",
	}
}

// ---------- Tests ----------

func TestStaffCreate_EmailsCredentials(t *testing.T) {
	repo := newMockStaffRepo()
	m := &mockMailer{}
	bus := &mockEventBus{}
	svc := service.NewStaffService(repo, m, bus, testConfig())

	result, err := svc.Create(context.Background(), createRequest("Ada@Example.com"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if result.EmailFailed {
		t.Error("Expected email delivery to succeed")
	}
	if result.TempPassword != "" {
		t.Error("Expected temp password to be withheld when the email went out")
	}
	if result.Staff.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %s", result.Staff.Email)
	}
	if m.credentials != 1 {
		t.Errorf("Expected 1 credential email, got %d", m.credentials)
	}
	if len(m.lastPassword) == 0 {
		t.Fatal("Expected a generated password in the credential email")
	}
	if m.lastPassword == result.Staff.PasswordHash {
		t.Error("Plaintext password must not equal the stored hash")
	}

	valid, err := argon2id.ComparePasswordAndHash(m.lastPassword, result.Staff.PasswordHash)
	if err != nil || !valid {
		t.Errorf("Stored hash does not match the emailed password (valid=%v err=%v)", valid, err)
	}

	subjects := bus.subjects()
	if len(subjects) != 1 || subjects[0] != "staff.created" {
		t.Errorf("Expected one staff.created event, got %v", subjects)
	}
}

func TestStaffCreate_EmailFailure_ReturnsTempPassword(t *testing.T) {
	repo := newMockStaffRepo()
	m := &mockMailer{sendErr: fmt.Errorf("smtp unreachable")}
	svc := service.NewStaffService(repo, m, &mockEventBus{}, testConfig())

	result, err := svc.Create(context.Background(), createRequest("ada@example.com"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !result.EmailFailed {
		t.Error("Expected EmailFailed to be set")
	}
	if len(result.TempPassword) != 12 {
		t.Errorf("Expected 12-character temp password fallback, got %q", result.TempPassword)
	}
	if len(repo.staff) != 1 {
		t.Errorf("Expected staff member to be created despite email failure, got %d", len(repo.staff))
	}
}

func TestStaffCreate_DuplicateEmail(t *testing.T) {
	repo := newMockStaffRepo()
	svc := service.NewStaffService(repo, &mockMailer{}, &mockEventBus{}, testConfig())

	ctx := context.Background()
	if _, err := svc.Create(ctx, createRequest("ada@example.com")); err != nil {
		t.Fatalf("First create returned error: %v", err)
	}

	_, err := svc.Create(ctx, createRequest("ADA@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.staff) != 1 {
		t.Errorf("Expected one staff member, got %d", len(repo.staff))
	}
}

func TestStaffCreate_InvalidRole(t *testing.T) {
	svc := service.NewStaffService(newMockStaffRepo(), &mockMailer{}, &mockEventBus{}, testConfig())

	req := createRequest("ada@example.com")
	req.Role = "WIZARD"
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestResetPassword_InvalidatesOldCredential(t *testing.T) {
	repo := newMockStaffRepo()
	m := &mockMailer{}
	svc := service.NewStaffService(repo, m, &mockEventBus{}, testConfig())

	ctx := context.Background()
	created, err := svc.Create(ctx, createRequest("ada@example.com"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	oldHash := repo.staff[created.Staff.ID].PasswordHash
	oldPassword := m.lastPassword

	result, err := svc.ResetPassword(ctx, created.Staff.ID)
	if err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if result.EmailFailed {
		t.Error("Expected reset email to succeed")
	}

	newHash := repo.staff[created.Staff.ID].PasswordHash
	if newHash == oldHash {
		t.Error("Expected password hash to change on reset")
	}
	if m.lastPassword == oldPassword {
		t.Error("Expected a fresh temp password on reset")
	}
	if m.credentials != 2 {
		t.Errorf("Expected 2 credential emails, got %d", m.credentials)
	}
}

func TestResetPassword_UnknownStaff(t *testing.T) {
	svc := service.NewStaffService(newMockStaffRepo(), &mockMailer{}, &mockEventBus{}, testConfig())

	_, err := svc.ResetPassword(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrStaffNotFound) {
		t.Fatalf("Expected ErrStaffNotFound, got %v", err)
	}
}

func TestStaffLogin_Success(t *testing.T) {
	repo := newMockStaffRepo()
	m := &mockMailer{}
	cfg := testConfig()
	svc := service.NewStaffService(repo, m, &mockEventBus{}, cfg)

	ctx := context.Background()
	req := createRequest("ada@example.com")
	req.Role = "ADMIN"
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	result, err := svc.Login(ctx, &domain.StaffLoginRequest{Email: "Ada@Example.com", Password: m.lastPassword})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.ExpiresIn != 3600 {
		t.Errorf("Expected expiresIn 3600, got %d", result.ExpiresIn)
	}

	claims, err := auth.Parse(result.AccessToken, cfg.Auth.JWTSecret)
	if err != nil {
		t.Fatalf("Token failed to parse: %v", err)
	}
	if claims.Sub != created.Staff.ID {
		t.Errorf("Expected subject %s, got %s", created.Staff.ID, claims.Sub)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Expected role ADMIN, got %s", claims.Role)
	}

	if repo.staff[created.Staff.ID].LastLoginAt == nil {
		t.Error("Expected lastLoginAt to be recorded")
	}
}

func TestStaffLogin_WrongPassword(t *testing.T) {
	repo := newMockStaffRepo()
	svc := service.NewStaffService(repo, &mockMailer{}, &mockEventBus{}, testConfig())

	ctx := context.Background()
	if _, err := svc.Create(ctx, createRequest("ada@example.com")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err := svc.Login(ctx, &domain.StaffLoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	if !errors.Is(err, domain.ErrInvalidLogin) {
		t.Fatalf("Expected ErrInvalidLogin, got %v", err)
	}
}

func TestStaffLogin_UnknownEmail(t *testing.T) {
	svc := service.NewStaffService(newMockStaffRepo(), &mockMailer{}, &mockEventBus{}, testConfig())

	_, err := svc.Login(context.Background(), &domain.StaffLoginRequest{Email: "nobody@example.com", Password: "x"})
	if !errors.Is(err, domain.ErrInvalidLogin) {
		t.Fatalf("Expected ErrInvalidLogin, got %v", err)
	}
}

func TestStaffLogin_DeactivatedAccount(t *testing.T) {
	repo := newMockStaffRepo()
	m := &mockMailer{}
	svc := service.NewStaffService(repo, m, &mockEventBus{}, testConfig())

	ctx := context.Background()
	created, err := svc.Create(ctx, createRequest("ada@example.com"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	password := m.lastPassword

	if err := svc.Deactivate(ctx, created.Staff.ID); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}

	_, err = svc.Login(ctx, &domain.StaffLoginRequest{Email: "ada@example.com", Password: password})
	if !errors.Is(err, domain.ErrStaffInactive) {
		t.Fatalf("Expected ErrStaffInactive, got %v", err)
	}
}

func TestStaffDeactivate_Unknown(t *testing.T) {
	svc := service.NewStaffService(newMockStaffRepo(), &mockMailer{}, &mockEventBus{}, testConfig())

	err := svc.Deactivate(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrStaffNotFound) {
		t.Fatalf("Expected ErrStaffNotFound, got %v", err)
	}
}
