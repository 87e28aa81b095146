package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/itemhub/internal/apperror"
	"github.com/keyxmakerx/itemhub/internal/database"
)

// ItemRepository defines the data access contract for items.
type ItemRepository interface {
	List(ctx context.Context) ([]Item, error)
	FindByID(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}

// itemRepository implements ItemRepository for MySQL and PostgreSQL.
type itemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository backed by the given DB pool.
func NewItemRepository(db *database.DB) ItemRepository {
	return &itemRepository{db: db}
}

// List returns every item, newest first.
func (r *itemRepository) List(ctx context.Context) ([]Item, error) {
	query := `SELECT id, name, created_at, updated_at FROM items ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// FindByID retrieves one item.
// Returns apperror.NotFound if no item exists with this ID.
func (r *itemRepository) FindByID(ctx context.Context, id int64) (*Item, error) {
	query := `SELECT id, name, created_at, updated_at FROM items WHERE id = ?`

	var it Item
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).
		Scan(&it.ID, &it.Name, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying item by id: %w", err)
	}
	return &it, nil
}

// Create inserts a new item and sets item.ID to the generated key.
func (r *itemRepository) Create(ctx context.Context, item *Item) error {
	query := `INSERT INTO items (name, created_at, updated_at) VALUES (?, ?, ?)`

	id, err := database.InsertReturningID(ctx, r.db, r.db.Dialect, query,
		item.Name, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	item.ID = id
	return nil
}

// Update writes the item's name and updated_at.
func (r *itemRepository) Update(ctx context.Context, item *Item) error {
	query := `UPDATE items SET name = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), item.Name, item.UpdatedAt, item.ID); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// Delete removes an item.
// Returns apperror.NotFound if no item exists with this ID.
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = ?`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("Item not found")
	}
	return nil
}
