package insights

import "agent-console/internal/models"

type dayBucket struct {
	revenue revenueSum
	point   models.SeriesPoint
}

// BuildSeries emits one point per window date, in window order. Dates with
// no records yield a zero-valued point.
func BuildSeries(w Window, orders []models.OrderRecord, traffic []models.TrafficRecord, social []models.SocialRecord) []models.SeriesPoint {
	buckets := make(map[string]*dayBucket, w.Len())
	for _, d := range w.Dates() {
		buckets[d] = &dayBucket{point: models.SeriesPoint{Date: d}}
	}

	for _, o := range orders {
		if b, ok := buckets[o.Date]; ok {
			b.revenue.add(o.Revenue)
			b.point.Orders++
		}
	}
	for _, t := range traffic {
		if b, ok := buckets[t.Date]; ok {
			b.point.Sessions += t.Sessions
			b.point.Purchases += t.Purchases
		}
	}
	for _, s := range social {
		if b, ok := buckets[s.Date]; ok {
			b.point.SocialClicks += s.Clicks
			b.point.SocialEngagements += s.Engagements
		}
	}

	series := make([]models.SeriesPoint, 0, w.Len())
	for _, d := range w.Dates() {
		b := buckets[d]
		b.point.Revenue = b.revenue.rounded()
		series = append(series, b.point)
	}
	return series
}
