package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cyberacademy/internal/model"
)

type BlogRepository interface {
	// ListPosts returns all posts, newest first
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	ListRecentPosts(ctx context.Context, limit int) ([]model.BlogPost, error)
	GetPostByID(ctx context.Context, postID int64) (*model.BlogPost, error)
	CreatePost(ctx context.Context, p *model.BlogPost) error
}

type blogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) BlogRepository {
	return &blogRepo{db: db}
}

func (r *blogRepo) queryPosts(ctx context.Context, query string, args ...any) ([]model.BlogPost, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blog posts: %w", err)
	}
	defer rows.Close()

	posts := []model.BlogPost{}
	for rows.Next() {
		var p model.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.ImagePath, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *blogRepo) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return r.queryPosts(ctx, `
		SELECT id, title, content, author, image_path, created_at
		FROM blog_posts
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *blogRepo) ListRecentPosts(ctx context.Context, limit int) ([]model.BlogPost, error) {
	return r.queryPosts(ctx, `
		SELECT id, title, content, author, image_path, created_at
		FROM blog_posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
}

func (r *blogRepo) GetPostByID(ctx context.Context, postID int64) (*model.BlogPost, error) {
	query := `SELECT id, title, content, author, image_path, created_at FROM blog_posts WHERE id = $1`
	var p model.BlogPost
	err := conn(ctx, r.db).QueryRowContext(ctx, query, postID).
		Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.ImagePath, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blog post %d: %w", postID, err)
	}
	return &p, nil
}

func (r *blogRepo) CreatePost(ctx context.Context, p *model.BlogPost) error {
	// A zero CreatedAt takes the database clock; seeded posts carry their own.
	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		createdAt = &p.CreatedAt
	}
	query := `
		INSERT INTO blog_posts (title, content, author, image_path, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query, p.Title, p.Content, p.Author, p.ImagePath, createdAt).Scan(&p.ID, &p.CreatedAt)
}
