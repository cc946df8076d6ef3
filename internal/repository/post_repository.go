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

type PostRepository interface {
	Create(ctx context.Context, req *domain.CreatePostRequest) (*domain.Post, error)
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Post, error)
	Update(ctx context.Context, id string, req *domain.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postCols = `id, slug, title, body, published, created_at, updated_at`

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, req *domain.CreatePostRequest) (*domain.Post, error) {
	const q = `INSERT INTO posts (id, slug, title, body, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + postCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPost(r.pool.QueryRow(ctx, q, uuid.NewString(), req.Slug, req.Title, req.Body, req.Published))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}
	return p, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	const q = `SELECT ` + postCols + ` FROM posts WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPost(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *postRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + postCols + ` FROM posts`
	if publishedOnly {
		q += ` WHERE published`
	}
	q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, id string, req *domain.UpdatePostRequest) (*domain.Post, error) {
	const q = `UPDATE posts
		SET title     = COALESCE($2, title),
			body      = COALESCE($3, body),
			published = COALESCE($4, published),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + postCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPost(r.pool.QueryRow(ctx, q, id, req.Title, req.Body, req.Published))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM posts WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
