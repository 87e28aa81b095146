package items

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/response"
	"github.com/keyxmakerx/itemhub/internal/validation"
)

// Handler handles HTTP requests for items. Handlers are thin: they bind the
// request, call the service, and render the response.
type Handler struct {
	service ItemService
}

// NewHandler creates a new item handler.
func NewHandler(service ItemService) *Handler {
	return &Handler{service: service}
}

// List returns all items (GET /api/items).
func (h *Handler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, items, "")
}

// Get returns one item (GET /api/items/:id).
func (h *Handler) Get(c echo.Context) error {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, item, "")
}

// Create adds an item (POST /api/items).
func (h *Handler) Create(c echo.Context) error {
	var req ItemRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, item, "Item created successfully")
}

// Update renames an item (PUT /api/items/:id).
func (h *Handler) Update(c echo.Context) error {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req ItemRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, item, "Item updated successfully")
}

// Delete removes an item (DELETE /api/items/:id).
func (h *Handler) Delete(c echo.Context) error {
	id, err := validation.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, nil, "Item deleted successfully")
}
