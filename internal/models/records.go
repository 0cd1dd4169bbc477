package models

// DateLayout is the ISO calendar-day layout used by every record date.
const DateLayout = "2006-01-02"

type OrderRecord struct {
	Date            string  `json:"date"`
	Revenue         float64 `json:"revenue_eur"`
	Category        string  `json:"category"`
	CustomerSegment string  `json:"customer_segment"`
	Returned        bool    `json:"returned"`
}

type TrafficRecord struct {
	Date      string `json:"date"`
	Sessions  int    `json:"sessions"`
	AddToCart int    `json:"add_to_cart"`
	Checkouts int    `json:"checkouts"`
	Purchases int    `json:"purchases"`
}

type SocialRecord struct {
	Date        string `json:"date"`
	Clicks      int    `json:"clicks"`
	Engagements int    `json:"engagements"`
}

type Product struct {
	SKU            string   `json:"sku"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Viscosity      string   `json:"viscosity,omitempty"`
	PriceEUR       float64  `json:"priceEUR"`
	Stock          *int     `json:"stock,omitempty"`
	Image          string   `json:"image,omitempty"`
	RecommendedFor []string `json:"recommendedFor,omitempty"`
}

type Vehicle struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Year   int    `json:"year"`
	Engine string `json:"engine"`
	Fuel   string `json:"fuel"`
}
