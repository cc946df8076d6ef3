package domain

import (
	"fmt"
	"strings"
	"time"
)

type StaffRole string

const (
	RoleAdmin     StaffRole = "ADMIN"
	RoleFrontdesk StaffRole = "FRONTDESK"
	RoleSecurity  StaffRole = "SECURITY"
)

func ParseStaffRole(s string) (StaffRole, bool) {
	switch StaffRole(s) {
	case RoleAdmin, RoleFrontdesk, RoleSecurity:
		return StaffRole(s), true
	default:
		return "", false
	}
}

// Staff is an internal account permitted to check in attendees.
// PasswordHash holds an argon2id digest, never plaintext.
type Staff struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         StaffRole  `json:"role"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateStaffRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (r *CreateStaffRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r *CreateStaffRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if r.FirstName == "" {
		return fmt.Errorf("firstName is required")
	}
	if r.LastName == "" {
		return fmt.Errorf("lastName is required")
	}
	if _, ok := ParseStaffRole(r.Role); !ok {
		return fmt.Errorf("role must be one of ADMIN, FRONTDESK, SECURITY")
	}
	return nil
}

type UpdateStaffRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

func (r *UpdateStaffRequest) Validate() error {
	if r.Role != nil {
		if _, ok := ParseStaffRole(strings.ToUpper(*r.Role)); !ok {
			return fmt.Errorf("role must be one of ADMIN, FRONTDESK, SECURITY")
		}
	}
	return nil
}

type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *StaffLoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}
