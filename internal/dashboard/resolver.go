// Package dashboard derives the admin dashboard from full snapshots of the
// order, menu, category and user collections. Everything here is a pure
// function of its inputs and is safe to call concurrently.
package dashboard

import "github.com/amiosamu/restaurant-admin/internal/domain"

// Resolver maps a menu item to the name of its category
type Resolver struct {
	menuCategory  map[string]string
	categoryNames map[string]string
}

// NewResolver builds the menu item -> category and category -> name tables.
// Menu items whose category is not in categories are left out.
func NewResolver(menuItems []domain.MenuItem, categories []domain.Category) *Resolver {
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	menuCategory := make(map[string]string, len(menuItems))
	for _, m := range menuItems {
		if _, ok := categoryNames[m.CategoryID]; ok {
			menuCategory[m.ID] = m.CategoryID
		}
	}

	return &Resolver{
		menuCategory:  menuCategory,
		categoryNames: categoryNames,
	}
}

// CategoryOf returns the category ID of a menu item
func (r *Resolver) CategoryOf(menuItemID string) (string, bool) {
	id, ok := r.menuCategory[menuItemID]
	return id, ok
}

// Resolve follows menu item -> category -> name
func (r *Resolver) Resolve(menuItemID string) (string, bool) {
	categoryID, ok := r.menuCategory[menuItemID]
	if !ok {
		return "", false
	}
	name, ok := r.categoryNames[categoryID]
	return name, ok
}
