package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitops/conference-api/internal/domain"
)

type TicketRepository interface {
	CreateScholarship(ctx context.Context, req *domain.ScholarshipRequest) (*domain.ScholarshipTicket, error)
	FindScholarshipByEmail(ctx context.Context, email string) (*domain.ScholarshipTicket, error)
	ListScholarships(ctx context.Context, limit, offset int) ([]domain.ScholarshipTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const scholarshipCols = `id, customer_name, customer_email, customer_phone, ticket_type, notes, created_at`

func (r *ticketRepository) CreateScholarship(ctx context.Context, req *domain.ScholarshipRequest) (*domain.ScholarshipTicket, error) {
	const q = `INSERT INTO scholarship_tickets (id, customer_name, customer_email, customer_phone, ticket_type, notes)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		RETURNING ` + scholarshipCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.ScholarshipTicket
	err := r.pool.QueryRow(ctx, q,
		uuid.NewString(), req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.TicketType, req.Notes,
	).Scan(&t.ID, &t.CustomerName, &t.CustomerEmail, &t.CustomerPhone, &t.TicketType, &t.Notes, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) FindScholarshipByEmail(ctx context.Context, email string) (*domain.ScholarshipTicket, error) {
	const q = `SELECT ` + scholarshipCols + ` FROM scholarship_tickets WHERE customer_email = lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.ScholarshipTicket
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&t.ID, &t.CustomerName, &t.CustomerEmail, &t.CustomerPhone, &t.TicketType, &t.Notes, &t.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) ListScholarships(ctx context.Context, limit, offset int) ([]domain.ScholarshipTicket, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + scholarshipCols + ` FROM scholarship_tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.ScholarshipTicket
	for rows.Next() {
		var t domain.ScholarshipTicket
		if err := rows.Scan(&t.ID, &t.CustomerName, &t.CustomerEmail, &t.CustomerPhone, &t.TicketType, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
