package items

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/itemhub/internal/apperror"
	"github.com/keyxmakerx/itemhub/internal/response"
	"github.com/keyxmakerx/itemhub/internal/validation"
)

// memItemRepo is an in-memory ItemRepository.
type memItemRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]Item
}

func (r *memItemRepo) List(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memItemRepo) FindByID(ctx context.Context, id int64) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, apperror.NewNotFound("Item not found")
	}
	return &it, nil
}

func (r *memItemRepo) Create(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Update(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperror.NewNotFound("Item not found")
	}
	delete(r.items, id)
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = validation.New()
	RegisterRoutes(e, NewHandler(NewItemService(&memItemRepo{items: map[int64]Item{}})))
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *apperror.AppError
}

func call(t *testing.T, e *echo.Echo, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestItemsCRUD(t *testing.T) {
	e := newTestEcho()

	status, env := call(t, e, http.MethodPost, "/api/items", `{"name":"First"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Item created successfully", env.Message)

	var created Item
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "First", created.Name)

	_, _ = call(t, e, http.MethodPost, "/api/items", `{"name":"Second"}`)

	status, env = call(t, e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, status)
	var list []Item
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name, "newest first")

	status, env = call(t, e, http.MethodPut, "/api/items/1", `{"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item updated successfully", env.Message)

	status, env = call(t, e, http.MethodGet, "/api/items/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"Renamed"`)

	status, env = call(t, e, http.MethodDelete, "/api/items/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item deleted successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))

	status, env = call(t, e, http.MethodGet, "/api/items/1", "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Item not found", env.Error.Message)
}

func TestItems_EmptyListIsArray(t *testing.T) {
	status, env := call(t, newTestEcho(), http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(env.Data))
}

func TestItems_InvalidID(t *testing.T) {
	e := newTestEcho()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/items/abc", ""},
		{http.MethodPut, "/api/items/0", `{"name":"x"}`},
		{http.MethodDelete, "/api/items/-1", ""},
	} {
		status, env := call(t, e, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusBadRequest, status, tc.path)
		assert.Equal(t, apperror.CodeValidation, env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, apperror.FieldError{Field: "id", Message: "Invalid ID"}, env.Error.Details[0])
	}
}

func TestItems_ValidationAndMissing(t *testing.T) {
	e := newTestEcho()

	status, env := call(t, e, http.MethodPost, "/api/items", `{"name":""}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", env.Error.Details[0].Field)

	status, _ = call(t, e, http.MethodPost, "/api/items", `{"name":"`+strings.Repeat("n", 256)+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, e, http.MethodPut, "/api/items/99", `{"name":"Ghost"}`)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperror.CodeNotFound, env.Error.Code)

	status, _ = call(t, e, http.MethodDelete, "/api/items/99", "")
	assert.Equal(t, http.StatusNotFound, status)
}
