// Package posts implements the blog: a public feed of posts with author and
// like count, post creation for signed-in users, and a like toggle.
package posts

import "time"

// Author is the public slice of a user shown next to a post.
type Author struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// Counts holds aggregate counters for a post.
type Counts struct {
	Likes int64 `json:"likes"`
}

// Post is a blog post as returned by the API.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Author    `json:"author"`
	Count     Counts    `json:"_count"`
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required,min=1"`
}

// CreatePostInput is the validated input for creating a post.
type CreatePostInput struct {
	Title   string
	Content string
}

// LikeResult reports the caller's like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
}
