package insights

import (
	"github.com/shopspring/decimal"

	"agent-console/internal/models"
)

// ComputeKPIs reduces the window's orders and traffic to the core metrics.
// Every ratio with a zero denominator is 0. Cart abandonment is not clamped:
// a negative value means the source data has more checkouts than add-to-carts.
func ComputeKPIs(orders []models.OrderRecord, traffic []models.TrafficRecord) models.KpiSet {
	var revenue revenueSum
	returned := 0
	for _, o := range orders {
		revenue.add(o.Revenue)
		if o.Returned {
			returned++
		}
	}

	var sessions, addToCart, checkouts, purchases int
	for _, t := range traffic {
		sessions += t.Sessions
		addToCart += t.AddToCart
		checkouts += t.Checkouts
		purchases += t.Purchases
	}

	kpis := models.KpiSet{
		Revenue:        revenue.rounded(),
		Orders:         len(orders),
		ConversionPct:  percent(purchases, sessions),
		CartAbandonPct: percent(addToCart-checkouts, addToCart),
		ReturnRatePct:  percent(returned, len(orders)),
	}
	if len(orders) > 0 {
		kpis.AOV = revenue.total.Div(decimal.NewFromInt(int64(len(orders)))).Round(2).InexactFloat64()
	}
	return kpis
}
