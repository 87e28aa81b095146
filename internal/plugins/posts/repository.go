package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/itemhub/internal/apperror"
	"github.com/keyxmakerx/itemhub/internal/database"
)

// PostRepository defines the data access contract for posts and likes.
type PostRepository interface {
	List(ctx context.Context) ([]Post, error)
	FindByID(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, post *Post) error

	// ToggleLike adds the user's like if absent and removes it otherwise,
	// returning the new state. Runs in a single transaction.
	ToggleLike(ctx context.Context, postID, userID int64) (liked bool, err error)
}

// postRepository implements PostRepository for MySQL and PostgreSQL.
type postRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewPostRepository creates a new post repository backed by the given DB pool.
func NewPostRepository(db *database.DB) PostRepository {
	return &postRepository{db: db, now: time.Now}
}

// postSelect joins each post with its author and like count.
const postSelect = `SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
       u.id, u.name, u.avatar,
       (SELECT COUNT(*) FROM blog_likes l WHERE l.post_id = p.id)
FROM blog_posts p
JOIN users u ON u.id = p.author_id`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*Post, error) {
	p := &Post{}
	err := s.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Avatar,
		&p.Count.Likes,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]Post, error) {
	query := postSelect + ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// FindByID retrieves one post with its author and like count.
// Returns apperror.NotFound if no post exists with this ID.
func (r *postRepository) FindByID(ctx context.Context, id int64) (*Post, error) {
	query := postSelect + ` WHERE p.id = ?`

	p, err := scanPost(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying post by id: %w", err)
	}
	return p, nil
}

// Create inserts a post and sets post.ID to the generated key.
func (r *postRepository) Create(ctx context.Context, post *Post) error {
	query := `INSERT INTO blog_posts (title, content, author_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)`

	id, err := database.InsertReturningID(ctx, r.db, r.db.Dialect, query,
		post.Title, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	post.ID = id
	return nil
}

// ToggleLike flips the user's like on a post. The like is deleted first and
// inserted only when nothing was deleted. A concurrent duplicate insert is
// absorbed by the unique (post_id, user_id) index and reported as liked.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool

	err := database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx database.DBTX) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE id = ?)`), postID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking post: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("Post not found")
		}

		res, err := tx.ExecContext(ctx,
			r.db.Rebind(`DELETE FROM blog_likes WHERE post_id = ? AND user_id = ?`), postID, userID)
		if err != nil {
			return fmt.Errorf("removing like: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading rows affected: %w", err)
		}
		if removed > 0 {
			liked = false
			return nil
		}

		if _, err := tx.ExecContext(ctx, r.insertLikeQuery(), postID, userID, r.now().UTC()); err != nil {
			return fmt.Errorf("adding like: %w", err)
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// insertLikeQuery returns an INSERT that is a no-op when the (post_id,
// user_id) pair already exists.
func (r *postRepository) insertLikeQuery() string {
	if r.db.Dialect == database.Postgres {
		return r.db.Rebind(`INSERT INTO blog_likes (post_id, user_id, created_at) VALUES (?, ?, ?)
		          ON CONFLICT (post_id, user_id) DO NOTHING`)
	}
	return `INSERT INTO blog_likes (post_id, user_id, created_at) VALUES (?, ?, ?)
	        ON DUPLICATE KEY UPDATE post_id = post_id`
}
