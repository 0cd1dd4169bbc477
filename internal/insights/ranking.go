package insights

import (
	"slices"

	"agent-console/internal/models"
)

// TopN is the length cap on every ranking list.
const TopN = 5

type groupStats struct {
	name     string
	revenue  revenueSum
	orders   int
	returned int
}

// groupOrders buckets orders by key and returns the groups in first-seen
// order, so a stable sort breaks revenue ties deterministically.
func groupOrders(orders []models.OrderRecord, key func(models.OrderRecord) string) []*groupStats {
	index := make(map[string]*groupStats)
	var groups []*groupStats

	for _, o := range orders {
		k := key(o)
		g, ok := index[k]
		if !ok {
			g = &groupStats{name: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.revenue.add(o.Revenue)
		g.orders++
		if o.Returned {
			g.returned++
		}
	}
	return groups
}

// rank sorts stably by revenue descending and keeps the first TopN.
func rank[T any](items []T, revenue func(T) float64) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		ra, rb := revenue(a), revenue(b)
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		default:
			return 0
		}
	})
	if len(items) > TopN {
		items = items[:TopN]
	}
	return items
}

func RankCategories(orders []models.OrderRecord) []models.CategoryStat {
	groups := groupOrders(orders, func(o models.OrderRecord) string { return o.Category })

	stats := make([]models.CategoryStat, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, models.CategoryStat{
			Name:          g.name,
			Revenue:       g.revenue.rounded(),
			OrderCount:    g.orders,
			ReturnRatePct: percent(g.returned, g.orders),
		})
	}
	return rank(stats, func(c models.CategoryStat) float64 { return c.Revenue })
}

func RankSegments(orders []models.OrderRecord) []models.SegmentStat {
	groups := groupOrders(orders, func(o models.OrderRecord) string { return o.CustomerSegment })

	stats := make([]models.SegmentStat, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, models.SegmentStat{
			Name:       g.name,
			Revenue:    g.revenue.rounded(),
			OrderCount: g.orders,
		})
	}
	return rank(stats, func(s models.SegmentStat) float64 { return s.Revenue })
}
