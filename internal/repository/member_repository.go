package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitops/conference-api/internal/domain"
)

type MemberRepository interface {
	// Subscribe inserts or reactivates the membership for an email.
	// Already-subscribed emails come back unchanged.
	Subscribe(ctx context.Context, email string) (*domain.Member, error)
	Unsubscribe(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Member, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

const memberCols = `id, email, is_active, subscribed_at, unsubscribed_at`

func (r *memberRepository) Subscribe(ctx context.Context, email string) (*domain.Member, error) {
	// Upsert keeps one row per email across unsubscribe/resubscribe cycles.
	const q = `INSERT INTO newsletter_members (email, is_active, subscribed_at)
		VALUES (lower($1), true, now())
		ON CONFLICT (email) DO UPDATE
		SET is_active = true,
			subscribed_at = CASE WHEN newsletter_members.is_active THEN newsletter_members.subscribed_at ELSE now() END,
			unsubscribed_at = NULL
		RETURNING ` + memberCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.Member
	err := r.pool.QueryRow(ctx, q, email).Scan(&m.ID, &m.Email, &m.IsActive, &m.SubscribedAt, &m.UnsubscribedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) Unsubscribe(ctx context.Context, email string) (bool, error) {
	const q = `UPDATE newsletter_members
		SET is_active=false, unsubscribed_at=now()
		WHERE email = lower($1) AND is_active`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, email)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *memberRepository) List(ctx context.Context, limit, offset int) ([]domain.Member, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + memberCols + ` FROM newsletter_members ORDER BY subscribed_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Email, &m.IsActive, &m.SubscribedAt, &m.UnsubscribedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
