package domain

import (
	"strings"
	"time"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

// MenuItem is a dish offered for sale
type MenuItem struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItemInput carries the editable fields of a menu item
type MenuItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// MenuItemView is a menu item with its category resolved, when it still exists
type MenuItemView struct {
	MenuItem
	Category *Category `json:"category"`
}

// Validate checks the required fields
func (in MenuItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.NewValidation("Menu item name is required")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return errors.NewValidation("Menu item category is required")
	}
	if in.Price <= 0 {
		return errors.NewValidation("Menu item price must be greater than zero")
	}
	return nil
}

// NewMenuItem validates input and creates a menu item
func NewMenuItem(in MenuItemInput) (*MenuItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &MenuItem{CreatedAt: now}
	item.apply(in, now)
	return item, nil
}

// Update replaces the editable fields
func (m *MenuItem) Update(in MenuItemInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	m.apply(in, time.Now().UTC())
	return nil
}

func (m *MenuItem) apply(in MenuItemInput, now time.Time) {
	m.Name = strings.TrimSpace(in.Name)
	m.Description = strings.TrimSpace(in.Description)
	m.CategoryID = strings.TrimSpace(in.CategoryID)
	m.Price = in.Price
	m.Image = in.Image
	m.UpdatedAt = now
}
