package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
)

// Summary is the admin dashboard projection computed client-side from an
// upstream order list. The backend stays the authority on the raw orders;
// everything here is derived on demand.
type Summary struct {
	Orders            int                        `json:"orders"`
	SettledOrders     int                        `json:"settled_orders"`
	Revenue           int64                      `json:"revenue"`
	AverageOrderValue float64                    `json:"average_order_value"`
	MedianOrderValue  float64                    `json:"median_order_value"`
	P90OrderValue     float64                    `json:"p90_order_value"`
	ByStatus          map[domain.OrderStatus]int `json:"by_status"`
	Daily             []DailyBucket              `json:"daily"`
}

// DailyBucket aggregates settled revenue per calendar day.
type DailyBucket struct {
	Date    string `json:"date"`
	Orders  int    `json:"orders"`
	Revenue int64  `json:"revenue"`
}

// settled reports whether an order counts toward revenue.
func settled(status domain.OrderStatus) bool {
	switch status {
	case domain.OrderStatusPaid, domain.OrderStatusPreparing, domain.OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// Summarize folds an order list into dashboard numbers. Value statistics
// cover settled orders only; cancelled and expired orders never skew them.
func Summarize(orders []domain.Order) Summary {
	summary := Summary{
		Orders:   len(orders),
		ByStatus: make(map[domain.OrderStatus]int),
	}

	values := make([]float64, 0, len(orders))
	days := make(map[string]*DailyBucket)

	for i := range orders {
		order := &orders[i]
		summary.ByStatus[order.Status]++
		if !settled(order.Status) {
			continue
		}

		summary.SettledOrders++
		summary.Revenue += order.TotalAmount
		values = append(values, float64(order.TotalAmount))

		day := order.CreatedAt.Format(time.DateOnly)
		bucket, ok := days[day]
		if !ok {
			bucket = &DailyBucket{Date: day}
			days[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue += order.TotalAmount
	}

	if len(values) > 0 {
		// stats errors only on empty input, which is excluded above.
		summary.AverageOrderValue, _ = stats.Mean(values)
		summary.MedianOrderValue, _ = stats.Median(values)
		summary.P90OrderValue, _ = stats.Percentile(values, 90)
	}

	summary.Daily = make([]DailyBucket, 0, len(days))
	for _, bucket := range days {
		summary.Daily = append(summary.Daily, *bucket)
	}
	sort.Slice(summary.Daily, func(i, j int) bool {
		return summary.Daily[i].Date < summary.Daily[j].Date
	})

	return summary
}
