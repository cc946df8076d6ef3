package service

import (
	"context"
	"fmt"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/repository"
)

type PostService interface {
	Create(ctx context.Context, req *domain.CreatePostRequest) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Post, error)
	Update(ctx context.Context, id string, req *domain.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, req *domain.CreatePostRequest) (*domain.Post, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.postRepo.Create(ctx, req)
}

func (s *postService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Post, error) {
	return s.postRepo.List(ctx, publishedOnly, limit, offset)
}

func (s *postService) Update(ctx context.Context, id string, req *domain.UpdatePostRequest) (*domain.Post, error) {
	post, err := s.postRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	ok, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !ok {
		return domain.ErrPostNotFound
	}
	return nil
}
