package service

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// MenuService manages menu items
type MenuService struct {
	menu       interfaces.MenuRepository
	categories interfaces.CategoryRepository
	obs        Observability
}

var _ interfaces.MenuService = (*MenuService)(nil)

func NewMenuService(menu interfaces.MenuRepository, categories interfaces.CategoryRepository, obs Observability) *MenuService {
	return &MenuService{menu: menu, categories: categories, obs: obs}
}

func (s *MenuService) Create(ctx context.Context, in domain.MenuItemInput) (*domain.MenuItem, error) {
	ctx, span := s.obs.startSpan(ctx, "MenuService.Create")
	defer span.End()

	item, err := domain.NewMenuItem(in)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := s.requireCategory(ctx, item.CategoryID); err != nil {
		return nil, fail(span, err)
	}

	if err := s.menu.Create(ctx, item); err != nil {
		s.obs.count("menu_items_created_total", "error")
		return nil, fail(span, err)
	}

	s.obs.count("menu_items_created_total", "success")
	s.obs.Logger.Info(ctx, "Menu item created", map[string]interface{}{
		"menu_item_id": item.ID,
		"category_id":  item.CategoryID,
	})
	return item, nil
}

// List returns every menu item joined with its category
func (s *MenuService) List(ctx context.Context) ([]domain.MenuItemView, error) {
	ctx, span := s.obs.startSpan(ctx, "MenuService.List")
	defer span.End()

	items, err := s.menu.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	byID := make(map[string]*domain.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	views := make([]domain.MenuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, domain.MenuItemView{MenuItem: item, Category: byID[item.CategoryID]})
	}
	return views, nil
}

func (s *MenuService) Update(ctx context.Context, id string, in domain.MenuItemInput) (*domain.MenuItem, error) {
	ctx, span := s.obs.startSpan(ctx, "MenuService.Update", tracing.MenuItemIDKey.String(id))
	defer span.End()

	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := item.Update(in); err != nil {
		return nil, fail(span, err)
	}
	if err := s.requireCategory(ctx, item.CategoryID); err != nil {
		return nil, fail(span, err)
	}

	if err := s.menu.Update(ctx, item); err != nil {
		return nil, fail(span, err)
	}

	s.obs.Logger.Info(ctx, "Menu item updated", map[string]interface{}{"menu_item_id": id})
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	ctx, span := s.obs.startSpan(ctx, "MenuService.Delete", tracing.MenuItemIDKey.String(id))
	defer span.End()

	if err := s.menu.Delete(ctx, id); err != nil {
		return fail(span, err)
	}

	s.obs.Logger.Info(ctx, "Menu item deleted", map[string]interface{}{"menu_item_id": id})
	return nil
}

func (s *MenuService) requireCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewValidation("Category does not exist")
		}
		return err
	}
	return nil
}
