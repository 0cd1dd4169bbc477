package insights

import (
	"time"

	"agent-console/internal/models"
)

// Range is a named lookback window.
type Range string

const (
	RangeToday  Range = "today"
	Range7Days  Range = "7d"
	Range30Days Range = "30d"

	DefaultRange = Range7Days
)

// ParseRange maps a request token to a Range. Unknown tokens fall back to
// DefaultRange.
func ParseRange(token string) Range {
	switch r := Range(token); r {
	case RangeToday, Range7Days, Range30Days:
		return r
	default:
		return DefaultRange
	}
}

func (r Range) Days() int {
	switch r {
	case RangeToday:
		return 1
	case Range30Days:
		return 30
	default:
		return 7
	}
}

// Window is a contiguous, chronological run of calendar days.
type Window struct {
	dates []string
	set   map[string]struct{}
}

// NewWindow returns the r.Days() calendar days ending at anchor, inclusive.
// The window always has the full length, whether or not the dataset has
// records on those days.
func NewWindow(r Range, anchor time.Time) Window {
	n := r.Days()
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	w := Window{
		dates: make([]string, 0, n),
		set:   make(map[string]struct{}, n),
	}
	for i := n - 1; i >= 0; i-- {
		d := day.AddDate(0, 0, -i).Format(models.DateLayout)
		w.dates = append(w.dates, d)
		w.set[d] = struct{}{}
	}
	return w
}

func (w Window) Dates() []string { return w.dates }

func (w Window) Len() int { return len(w.dates) }

func (w Window) Contains(date string) bool {
	_, ok := w.set[date]
	return ok
}

func (w Window) FilterOrders(in []models.OrderRecord) []models.OrderRecord {
	return filter(in, w, func(o models.OrderRecord) string { return o.Date })
}

func (w Window) FilterTraffic(in []models.TrafficRecord) []models.TrafficRecord {
	return filter(in, w, func(t models.TrafficRecord) string { return t.Date })
}

func (w Window) FilterSocial(in []models.SocialRecord) []models.SocialRecord {
	return filter(in, w, func(s models.SocialRecord) string { return s.Date })
}

func filter[T any](in []T, w Window, date func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, rec := range in {
		if w.Contains(date(rec)) {
			out = append(out, rec)
		}
	}
	return out
}
