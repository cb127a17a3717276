package domain

import (
	"strings"
	"time"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

// Category groups menu items. Names are unique.
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryWithCount is a category together with the number of menu items in it
type CategoryWithCount struct {
	Category
	ItemCount int64 `json:"itemCount"`
}

// NewCategory validates and creates a category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidation("Category name is required")
	}

	now := time.Now().UTC()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
