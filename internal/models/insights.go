package models

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type SummaryMode string

const (
	ModeAI       SummaryMode = "ai"
	ModeFallback SummaryMode = "fallback"
)

// KpiSet holds the core business metrics for one window. Currency and
// percentage values are rounded to 2 decimals.
type KpiSet struct {
	Revenue        float64 `json:"revenue"`
	Orders         int     `json:"orders"`
	AOV            float64 `json:"aov"`
	ConversionPct  float64 `json:"conversionPct"`
	CartAbandonPct float64 `json:"cartAbandonPct"`
	ReturnRatePct  float64 `json:"returnRatePct"`
}

type CategoryStat struct {
	Name          string  `json:"name"`
	Revenue       float64 `json:"revenue"`
	OrderCount    int     `json:"orderCount"`
	ReturnRatePct float64 `json:"returnRatePct"`
}

type SegmentStat struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"orderCount"`
}

type SeriesPoint struct {
	Date              string  `json:"date"`
	Revenue           float64 `json:"revenue"`
	Orders            int     `json:"orders"`
	Sessions          int     `json:"sessions"`
	Purchases         int     `json:"purchases"`
	SocialClicks      int     `json:"socialClicks"`
	SocialEngagements int     `json:"socialEngagements"`
}

type Action struct {
	Priority Priority `json:"priority"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

// Insights is the assembled response for one range request.
type Insights struct {
	Range      string         `json:"range"`
	WindowDays int            `json:"windowDays"`
	KPIs       KpiSet         `json:"kpis"`
	Categories []CategoryStat `json:"categories"`
	Segments   []SegmentStat  `json:"segments"`
	Series     []SeriesPoint  `json:"series"`
	Actions    []Action       `json:"actions"`
	AISummary  string         `json:"aiSummary"`
	AIMode     SummaryMode    `json:"aiMode"`
}
