package posts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository over a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, p *Post) (*Post, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	var created Post
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, description, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, description, created_at`,
		p.Title, p.Description, p.CreatedAt,
	).Scan(&created.ID, &created.Title, &created.Description, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Post, error) {
	var p Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, created_at FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, created_at FROM posts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
