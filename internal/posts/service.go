package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/postline/postline/backend/go-services/internal/cache"
	"github.com/postline/postline/backend/go-services/pkg/logger"
)

const detailCacheTTL = 5 * time.Minute

// Service wraps the repository with read-through caching of post details.
type Service struct {
	repo  Repository
	cache cache.Cache
}

// NewService builds the post service. Cache may be nil; detail lookups then
// always hit the repository.
func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns all posts, oldest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx)
}

// Get returns one post, serving from the cache when possible. Cache failures
// are logged and fall through to the repository; they never fail the read.
func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	key := fmt.Sprintf("%d", id)
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var p Post
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return &p, nil
			}
		} else if err != nil {
			logger.Warnf("post cache get failed for id=%d: %v", id, err)
		}
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if b, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, key, string(b), detailCacheTTL); err != nil {
				logger.Warnf("post cache set failed for id=%d: %v", id, err)
			}
		}
	}
	return p, nil
}

// Create persists a new post.
func (s *Service) Create(ctx context.Context, title, description string) (*Post, error) {
	return s.repo.Create(ctx, &Post{Title: title, Description: description})
}
