package dashboard

import (
	"math"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/amiosamu/restaurant-admin/internal/domain"
)

const (
	// RecentOrdersLimit is how many of the newest orders are listed
	RecentOrdersLimit = 5

	currencySymbol  = "₹"
	unknownCustomer = "Unknown"
	flatChange      = "+0%"
)

// Snapshot is the full content of the four collections as read for one request
type Snapshot struct {
	Orders     []domain.Order
	MenuItems  []domain.MenuItem
	Categories []domain.Category
	Users      []domain.User
}

// Stat is one headline card
type Stat struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Color  string `json:"color"`
}

// RecentOrder is one row of the recent orders table
type RecentOrder struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Items    string `json:"items"`
	Total    string `json:"total"`
	Status   string `json:"status"`
}

// Summary holds the raw figures behind the headline cards
type Summary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalOrders   int     `json:"totalOrders"`
	AvgOrderValue int64   `json:"avgOrderValue"`
	NewCustomers  int     `json:"newCustomers"`
	PendingOrders int     `json:"pendingOrders"`
}

// Dashboard is the complete dashboard payload
type Dashboard struct {
	Stats        []Stat         `json:"stats"`
	RevenueData  []RevenuePoint `json:"revenueData"`
	CategoryData []CategorySale `json:"categoryData"`
	RecentOrders []RecentOrder  `json:"recentOrders"`
	Summary      Summary        `json:"summary"`
}

// Compose builds the dashboard from snap as of now
func Compose(snap Snapshot, now time.Time) *Dashboard {
	summary := Summarize(snap)
	resolver := NewResolver(snap.MenuItems, snap.Categories)

	return &Dashboard{
		Stats:        buildStats(summary),
		RevenueData:  BucketRevenue(snap.Orders, now),
		CategoryData: CategorySales(snap.Orders, resolver, snap.Categories),
		RecentOrders: RecentOrders(snap.Orders, snap.Users, RecentOrdersLimit),
		Summary:      summary,
	}
}

// Summarize computes totals and counts over the snapshot
func Summarize(snap Snapshot) Summary {
	var s Summary
	for _, o := range snap.Orders {
		s.TotalRevenue += o.TotalAmount
		if o.Status == domain.StatusPending {
			s.PendingOrders++
		}
	}
	s.TotalOrders = len(snap.Orders)
	if s.TotalOrders > 0 {
		s.AvgOrderValue = int64(math.Round(s.TotalRevenue / float64(s.TotalOrders)))
	}

	for _, u := range snap.Users {
		if u.Role == domain.RoleCustomer {
			s.NewCustomers++
		}
	}
	return s
}

// RecentOrders renders the newest limit orders, newest first
func RecentOrders(orders []domain.Order, users []domain.User, limit int) []RecentOrder {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	recent := make([]RecentOrder, 0, len(sorted))
	for i := range sorted {
		o := &sorted[i]
		customer, ok := names[o.UserID]
		if !ok {
			customer = unknownCustomer
		}
		recent = append(recent, RecentOrder{
			ID:       o.DisplayID(),
			Customer: customer,
			Items:    o.ItemsSummary(),
			Total:    currencySymbol + formatPlain(o.TotalAmount),
			Status:   string(o.Status),
		})
	}
	return recent
}

func buildStats(s Summary) []Stat {
	return []Stat{
		{Title: "Total Revenue", Value: currencySymbol + formatGrouped(s.TotalRevenue), Change: flatChange, Color: "bg-green-100 text-green-700"},
		{Title: "Total Orders", Value: strconv.Itoa(s.TotalOrders), Change: flatChange, Color: "bg-blue-100 text-blue-700"},
		{Title: "Avg Order Value", Value: currencySymbol + strconv.FormatInt(s.AvgOrderValue, 10), Change: flatChange, Color: "bg-teal-100 text-teal-700"},
		{Title: "New Customers", Value: strconv.Itoa(s.NewCustomers), Change: flatChange, Color: "bg-purple-100 text-purple-700"},
	}
}

// formatGrouped renders 1234567.5 as 1,234,567.5
func formatGrouped(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// formatPlain renders v without grouping or trailing zeros
func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
