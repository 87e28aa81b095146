package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keyxmakerx/itemhub/internal/apperror"
	"github.com/keyxmakerx/itemhub/internal/sanitize"
)

// PostService defines the business logic contract for the blog.
type PostService interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, authorID int64, input CreatePostInput) (*Post, error)
	ToggleLike(ctx context.Context, postID, userID int64) (*LikeResult, error)
}

// postService implements PostService. The feed cache is optional; any
// cache failure falls back to the database.
type postService struct {
	repo  PostRepository
	cache FeedCache
	now   func() time.Time
}

// NewPostService creates a new post service. cache may be nil.
func NewPostService(repo PostRepository, cache FeedCache) PostService {
	return &postService{repo: repo, cache: cache, now: time.Now}
}

// List returns the feed, newest first, from cache when possible. A fill
// that races with a write is dropped rather than caching the older feed.
func (s *postService) List(ctx context.Context) ([]Post, error) {
	fill := s.cache != nil
	var version int64
	if s.cache != nil {
		posts, ok, err := s.cache.Get(ctx)
		if err != nil {
			slog.Warn("post feed cache unavailable, reading from database", slog.Any("error", err))
			fill = false
		} else if ok {
			return posts, nil
		}
		if fill {
			if version, err = s.cache.Version(ctx); err != nil {
				slog.Warn("post feed version unavailable, skipping fill", slog.Any("error", err))
				fill = false
			}
		}
	}

	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing posts: %w", err))
	}

	if fill {
		switch err := s.cache.Set(ctx, version, posts); {
		case errors.Is(err, ErrStaleFeed):
			slog.Debug("post feed changed during fill, not caching")
		case err != nil:
			slog.Warn("failed to fill post feed cache", slog.Any("error", err))
		}
	}
	return posts, nil
}

// Create stores a post for authorID. The title is reduced to plain text and
// the content is sanitized before it touches the database.
func (s *postService) Create(ctx context.Context, authorID int64, input CreatePostInput) (*Post, error) {
	title := sanitize.Text(input.Title)
	content := sanitize.HTML(input.Content)

	var details []apperror.FieldError
	if title == "" {
		details = append(details, apperror.FieldError{Field: "title", Message: "Title is required"})
	}
	if content == "" {
		details = append(details, apperror.FieldError{Field: "content", Message: "Content is required"})
	}
	if len(details) > 0 {
		return nil, apperror.NewValidation("Validation failed", details...)
	}

	now := s.now().UTC()
	post := &Post{
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating post: %w", err))
	}

	// Reload to pick up the author and like count.
	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reloading post: %w", err))
	}

	s.invalidateFeed(ctx)

	slog.Info("post created",
		slog.Int64("post_id", created.ID),
		slog.Int64("author_id", authorID),
	)
	return created, nil
}

// ToggleLike likes or unlikes a post on behalf of userID.
func (s *postService) ToggleLike(ctx context.Context, postID, userID int64) (*LikeResult, error) {
	liked, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("toggling like: %w", err))
	}

	s.invalidateFeed(ctx)

	slog.Debug("post like toggled",
		slog.Int64("post_id", postID),
		slog.Int64("user_id", userID),
		slog.Bool("liked", liked),
	)
	return &LikeResult{Liked: liked}, nil
}

// invalidateFeed drops the cached feed. Failures only cost staleness up to
// the cache TTL, so they are logged and ignored.
func (s *postService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate post feed cache", slog.Any("error", err))
	}
}
