package posts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/plugins/auth"
	"github.com/keyxmakerx/itemhub/internal/response"
	"github.com/keyxmakerx/itemhub/internal/validation"
)

// Handler handles HTTP requests for blog posts.
type Handler struct {
	service PostService
}

// NewHandler creates a new post handler.
func NewHandler(service PostService) *Handler {
	return &Handler{service: service}
}

// List returns the feed (GET /api/posts).
func (h *Handler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, posts, "")
}

// Create publishes a post as the signed-in user (POST /api/posts).
func (h *Handler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, post, "Post created successfully")
}

// Like toggles the signed-in user's like (PATCH /api/posts/:id/like).
func (h *Handler) Like(c echo.Context) error {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.service.ToggleLike(c.Request().Context(), id, auth.GetUserID(c))
	if err != nil {
		return err
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}
	return response.Success(c, http.StatusOK, result, message)
}
