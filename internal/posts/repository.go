package posts

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no post matches the lookup.
var ErrNotFound = errors.New("post not found")

// Repository defines persistence operations for posts.
type Repository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	Get(ctx context.Context, id int64) (*Post, error)
	// List returns all posts ordered by creation time, oldest first.
	List(ctx context.Context) ([]*Post, error)
}
