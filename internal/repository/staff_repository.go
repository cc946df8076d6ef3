package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitops/conference-api/internal/domain"
)

type StaffRepository interface {
	Create(ctx context.Context, req *domain.CreateStaffRequest, passwordHash string) (*domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	FindByEmail(ctx context.Context, email string) (*domain.Staff, error)
	List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Staff, error)
	Update(ctx context.Context, id string, req *domain.UpdateStaffRequest) (*domain.Staff, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Deactivate(ctx context.Context, id string) (bool, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffCols = `id, email, first_name, last_name, role,
password_hash, is_active, last_login_at, created_at, updated_at`

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(
		&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.Role,
		&s.PasswordHash, &s.IsActive, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) Create(ctx context.Context, req *domain.CreateStaffRequest, passwordHash string) (*domain.Staff, error) {
	const q = `INSERT INTO staff (id, email, first_name, last_name, role, password_hash, is_active)
		VALUES ($1, lower($2), $3, $4, $5, $6, true)
		RETURNING ` + staffCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanStaff(r.pool.QueryRow(ctx, q,
		uuid.NewString(), req.Email, req.FirstName, req.LastName, req.Role, passwordHash,
	))
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE email = lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *staffRepository) List(ctx context.Context, isActive *bool, limit, offset int) ([]domain.Staff, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + staffCols + ` FROM staff`
	args := []any{}
	if isActive != nil {
		q += ` WHERE is_active=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *isActive, limit, offset)
	} else {
		q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(
			&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.Role,
			&s.PasswordHash, &s.IsActive, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	return members, rows.Err()
}

func (r *staffRepository) Update(ctx context.Context, id string, req *domain.UpdateStaffRequest) (*domain.Staff, error) {
	const q = `UPDATE staff
		SET first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			role       = COALESCE($4, role),
			is_active  = COALESCE($5, is_active),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + staffCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, id, req.FirstName, req.LastName, req.Role, req.IsActive))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *staffRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE staff SET password_hash=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrStaffNotFound
	}
	return nil
}

func (r *staffRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE staff SET is_active=false, updated_at=now() WHERE id=$1 AND is_active`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *staffRepository) TouchLastLogin(ctx context.Context, id string) error {
	const q = `UPDATE staff SET last_login_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id)
	return err
}
