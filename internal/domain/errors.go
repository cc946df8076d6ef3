package domain

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrOrderNotFound  = errors.New("order not found")
	ErrStaffNotFound  = errors.New("staff member not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateSlug  = errors.New("slug already exists")
	ErrInvalidLogin   = errors.New("invalid credentials")
	ErrStaffInactive  = errors.New("staff account is deactivated")
)
