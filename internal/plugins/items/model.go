// Package items manages the public item catalogue: a flat list of named
// records with create, read, update, and delete endpoints.
package items

import "time"

// Item is a single catalogue entry. It is serialized directly in responses.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemRequest is the body of POST /api/items and PUT /api/items/:id.
type ItemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}
