package service

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// CategoryService manages categories and the menu items that belong to them
type CategoryService struct {
	categories interfaces.CategoryRepository
	menu       interfaces.MenuRepository
	obs        Observability
}

var _ interfaces.CategoryService = (*CategoryService)(nil)

func NewCategoryService(categories interfaces.CategoryRepository, menu interfaces.MenuRepository, obs Observability) *CategoryService {
	return &CategoryService{categories: categories, menu: menu, obs: obs}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	ctx, span := s.obs.startSpan(ctx, "CategoryService.Create")
	defer span.End()

	category, err := domain.NewCategory(name)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.obs.count("categories_created_total", "error")
		return nil, fail(span, err)
	}

	s.obs.count("categories_created_total", "success")
	s.obs.Logger.Info(ctx, "Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

// List returns every category with the number of menu items in it
func (s *CategoryService) List(ctx context.Context) ([]domain.CategoryWithCount, error) {
	ctx, span := s.obs.startSpan(ctx, "CategoryService.List")
	defer span.End()

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	counts, err := s.menu.CountByCategory(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	result := make([]domain.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		result = append(result, domain.CategoryWithCount{Category: c, ItemCount: counts[c.ID]})
	}
	return result, nil
}

// Delete removes the category and every menu item in it
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	ctx, span := s.obs.startSpan(ctx, "CategoryService.Delete", tracing.CategoryIDKey.String(id))
	defer span.End()

	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return fail(span, err)
	}

	removed, err := s.menu.DeleteByCategory(ctx, id)
	if err != nil {
		return fail(span, errors.Wrap(err, "failed to delete category menu items"))
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fail(span, err)
	}

	s.obs.Logger.Info(ctx, "Category deleted", map[string]interface{}{
		"category_id":        id,
		"menu_items_removed": removed,
	})
	return nil
}
