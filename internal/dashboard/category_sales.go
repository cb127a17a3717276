package dashboard

import (
	"sort"

	"github.com/amiosamu/restaurant-admin/internal/domain"
)

// CategorySale is one bar of the popular-categories chart
type CategorySale struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

// CategorySales counts line items per category, most sold first.
// Every category starts at zero. A line item counts once regardless of its
// quantity, and line items that do not resolve to a category are skipped.
func CategorySales(orders []domain.Order, resolver *Resolver, categories []domain.Category) []CategorySale {
	sales := make([]CategorySale, 0, len(categories))
	byName := make(map[string]int, len(categories))
	for _, c := range categories {
		if _, seen := byName[c.Name]; seen {
			continue
		}
		byName[c.Name] = len(sales)
		sales = append(sales, CategorySale{Name: c.Name})
	}

	for _, o := range orders {
		for _, item := range o.CartItems {
			name, ok := resolver.Resolve(item.MenuItemID)
			if !ok {
				continue
			}
			i, ok := byName[name]
			if !ok {
				continue
			}
			sales[i].Sales++
		}
	}

	sort.SliceStable(sales, func(a, b int) bool {
		return sales[a].Sales > sales[b].Sales
	})

	return sales
}
