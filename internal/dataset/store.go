// Package dataset holds the read-only record collections the insights
// pipeline runs on. A Store is built once at startup and never mutated.
package dataset

import (
	"fmt"
	"math"
	"time"

	"agent-console/internal/models"
)

// Records groups the collections a Store is built from. Products and
// Vehicles are optional catalog data.
type Records struct {
	Orders   []models.OrderRecord
	Traffic  []models.TrafficRecord
	Social   []models.SocialRecord
	Products []models.Product
	Vehicles []models.Vehicle
}

type Store struct {
	orders   []models.OrderRecord
	traffic  []models.TrafficRecord
	social   []models.SocialRecord
	products []models.Product
	vehicles []models.Vehicle

	firstTraffic time.Time
	lastTraffic  time.Time
	loadedAt     time.Time
}

// New validates r and returns a Store over it. The slices are retained,
// so callers must not modify them afterwards.
func New(r Records) (*Store, error) {
	if err := validate(r); err != nil {
		return nil, err
	}

	s := &Store{
		orders:   orEmpty(r.Orders),
		traffic:  orEmpty(r.Traffic),
		social:   orEmpty(r.Social),
		products: orEmpty(r.Products),
		vehicles: orEmpty(r.Vehicles),
		loadedAt: time.Now().UTC(),
	}

	for _, t := range s.traffic {
		d, _ := time.Parse(models.DateLayout, t.Date)
		if s.lastTraffic.IsZero() || d.After(s.lastTraffic) {
			s.lastTraffic = d
		}
		if s.firstTraffic.IsZero() || d.Before(s.firstTraffic) {
			s.firstTraffic = d
		}
	}

	return s, nil
}

func validate(r Records) error {
	for i, o := range r.Orders {
		if err := checkDate(o.Date); err != nil {
			return fmt.Errorf("%s[%d]: %w", ordersFile, i, err)
		}
		if math.IsNaN(o.Revenue) || math.IsInf(o.Revenue, 0) {
			return fmt.Errorf("%s[%d]: revenue is not a finite number", ordersFile, i)
		}
	}

	for i, t := range r.Traffic {
		if err := checkDate(t.Date); err != nil {
			return fmt.Errorf("%s[%d]: %w", trafficFile, i, err)
		}
		if t.Sessions < 0 || t.AddToCart < 0 || t.Checkouts < 0 || t.Purchases < 0 {
			return fmt.Errorf("%s[%d]: counts must be non-negative", trafficFile, i)
		}
	}

	for i, s := range r.Social {
		if err := checkDate(s.Date); err != nil {
			return fmt.Errorf("%s[%d]: %w", socialFile, i, err)
		}
		if s.Clicks < 0 || s.Engagements < 0 {
			return fmt.Errorf("%s[%d]: counts must be non-negative", socialFile, i)
		}
	}

	for i, p := range r.Products {
		if p.SKU == "" {
			return fmt.Errorf("%s[%d]: sku is required", productsFile, i)
		}
	}

	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Store) Orders() []models.OrderRecord    { return s.orders }
func (s *Store) Traffic() []models.TrafficRecord { return s.traffic }
func (s *Store) Social() []models.SocialRecord   { return s.social }
func (s *Store) Products() []models.Product      { return s.products }
func (s *Store) Vehicles() []models.Vehicle      { return s.vehicles }

// LatestTrafficDate returns the most recent traffic date, or false when the
// dataset has no traffic records.
func (s *Store) LatestTrafficDate() (time.Time, bool) {
	return s.lastTraffic, !s.lastTraffic.IsZero()
}

// Stats summarizes the loaded dataset for monitoring.
func (s *Store) Stats() map[string]any {
	stats := map[string]any{
		"orders":    len(s.orders),
		"traffic":   len(s.traffic),
		"social":    len(s.social),
		"products":  len(s.products),
		"vehicles":  len(s.vehicles),
		"loaded_at": s.loadedAt,
	}
	if !s.lastTraffic.IsZero() {
		stats["traffic_from"] = s.firstTraffic.Format(models.DateLayout)
		stats["traffic_to"] = s.lastTraffic.Format(models.DateLayout)
	}
	return stats
}
