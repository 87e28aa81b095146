package items

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/keyxmakerx/itemhub/internal/apperror"
)

// ItemService defines the business logic contract for items.
type ItemService interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, name string) (*Item, error)
	Update(ctx context.Context, id int64, name string) (*Item, error)
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	repo ItemRepository
	now  func() time.Time
}

// NewItemService creates a new item service.
func NewItemService(repo ItemRepository) ItemService {
	return &itemService{repo: repo, now: time.Now}
}

func (s *itemService) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing items: %w", err))
	}
	return items, nil
}

func (s *itemService) Get(ctx context.Context, id int64) (*Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, passNotFound(err, "finding item")
	}
	return item, nil
}

func (s *itemService) Create(ctx context.Context, name string) (*Item, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &Item{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating item: %w", err))
	}

	slog.Info("item created", slog.Int64("item_id", item.ID))
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id int64, name string) (*Item, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, passNotFound(err, "finding item")
	}

	item.Name = name
	item.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("updating item: %w", err))
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return passNotFound(err, "deleting item")
	}

	slog.Info("item deleted", slog.Int64("item_id", id))
	return nil
}

// cleanName trims the name and rejects one that is only whitespace.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidation("Validation failed",
			apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	return name, nil
}

// passNotFound returns NotFound errors as-is and wraps everything else as
// an internal error.
func passNotFound(err error, op string) error {
	if apperror.IsNotFound(err) {
		return err
	}
	return apperror.NewInternal(fmt.Errorf("%s: %w", op, err))
}
