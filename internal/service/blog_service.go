package service

import (
	"context"
	"fmt"
	"strings"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"

	"github.com/rs/zerolog"
)

// DefaultRecentPosts is the number of posts returned by Recent when no limit
// is given.
const DefaultRecentPosts = 3

type BlogService interface {
	List(ctx context.Context) ([]model.BlogPost, error)
	Recent(ctx context.Context, limit int) ([]model.BlogPost, error)
	Get(ctx context.Context, postID int64) (*model.BlogPost, error)
	Create(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error)
}

type blogService struct {
	repo   repository.BlogRepository
	images ImageSigner
	logger zerolog.Logger
}

func NewBlogService(repo repository.BlogRepository, images ImageSigner, logger zerolog.Logger) BlogService {
	return &blogService{
		repo:   repo,
		images: images,
		logger: logger.With().Str("service", "BlogService").Logger(),
	}
}

func (s *blogService) List(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.signImages(ctx, posts), nil
}

func (s *blogService) Recent(ctx context.Context, limit int) ([]model.BlogPost, error) {
	if limit <= 0 {
		limit = DefaultRecentPosts
	}
	posts, err := s.repo.ListRecentPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	return s.signImages(ctx, posts), nil
}

func (s *blogService) Get(ctx context.Context, postID int64) (*model.BlogPost, error) {
	p, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	signed := s.signImages(ctx, []model.BlogPost{*p})
	return &signed[0], nil
}

func (s *blogService) Create(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error) {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info().Int64("post_id", p.ID).Msg("Blog post created")
	return p, nil
}

func (s *blogService) signImages(ctx context.Context, posts []model.BlogPost) []model.BlogPost {
	if s.images == nil {
		return posts
	}
	out := make([]model.BlogPost, len(posts))
	for i, p := range posts {
		if p.ImagePath != "" {
			if url, err := s.images.SignedURL(ctx, p.ImagePath); err == nil {
				p.ImagePath = url
			} else {
				s.logger.Warn().Err(err).Int64("post_id", p.ID).Msg("Failed to sign post image")
			}
		}
		out[i] = p
	}
	return out
}
