package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendscore/backend/internal/domain"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, author_name, content, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		post.ID, post.AuthorID, post.AuthorName, post.Content, post.ImageURL, post.CreatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, author_id, author_name, content, image_url, created_at
		FROM posts
		WHERE id = $1`
	var p domain.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.ImageURL, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadLikesAndComments(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, `
		SELECT id, author_id, author_name, content, image_url, created_at
		FROM posts
		ORDER BY created_at DESC`)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	return r.list(ctx, `
		SELECT id, author_id, author_name, content, image_url, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC`, authorID)
}

func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

func (r *PostRepo) HasLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *PostRepo) CreateLike(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (id, post_id, user_id, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		like.ID, like.PostID, like.UserID, like.UserName, like.CreatedAt,
	)
	return err
}

func (r *PostRepo) CreateComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, user_name, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.UserName, comment.Text, comment.CreatedAt,
	)
	return err
}

func (r *PostRepo) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.ImageURL, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if err := r.loadLikesAndComments(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *PostRepo) loadLikesAndComments(ctx context.Context, post *domain.Post) error {
	likeRows, err := r.pool.Query(ctx, `
		SELECT id, post_id, user_id, user_name, created_at
		FROM likes
		WHERE post_id = $1
		ORDER BY created_at ASC`, post.ID)
	if err != nil {
		return err
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var l domain.Like
		if err := likeRows.Scan(&l.ID, &l.PostID, &l.UserID, &l.UserName, &l.CreatedAt); err != nil {
			return err
		}
		post.Likes = append(post.Likes, l)
	}
	if err := likeRows.Err(); err != nil {
		return err
	}

	commentRows, err := r.pool.Query(ctx, `
		SELECT id, post_id, user_id, user_name, text, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC`, post.ID)
	if err != nil {
		return err
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var c domain.Comment
		if err := commentRows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.Text, &c.CreatedAt); err != nil {
			return err
		}
		post.Comments = append(post.Comments, c)
	}
	return commentRows.Err()
}
