package dashboard

import (
	"time"

	"github.com/amiosamu/restaurant-admin/internal/domain"
)

// RevenueWindow is the number of trailing calendar months reported
const RevenueWindow = 6

// RevenuePoint is one month of the revenue chart
type RevenuePoint struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type monthKey struct {
	year  int
	month time.Month
}

// BucketRevenue folds orders into the trailing RevenueWindow months ending
// with now's month, oldest first. Months are taken in now's location.
// Orders outside the window are ignored.
func BucketRevenue(orders []domain.Order, now time.Time) []RevenuePoint {
	points := make([]RevenuePoint, RevenueWindow)
	index := make(map[monthKey]int, RevenueWindow)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(RevenueWindow - 1), 0)
	for i := 0; i < RevenueWindow; i++ {
		m := first.AddDate(0, i, 0)
		index[monthKey{m.Year(), m.Month()}] = i
		points[i] = RevenuePoint{Name: m.Month().String()[:3]}
	}

	for _, o := range orders {
		created := o.CreatedAt.In(now.Location())
		i, ok := index[monthKey{created.Year(), created.Month()}]
		if !ok {
			continue
		}
		points[i].Revenue += o.TotalAmount
		points[i].Orders++
	}

	return points
}
