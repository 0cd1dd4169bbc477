// Package templates renders the dashboard shell. Data arrives afterwards
// over the Datastar SSE endpoint.
package templates

import "fmt"

type RangeOption struct {
	Token string
	Label string
}

type DashboardData struct {
	Title        string
	Version      string
	AIEnabled    bool
	DefaultRange string
	Ranges       []RangeOption
}

func DefaultDashboard(version string, aiEnabled bool) DashboardData {
	return DashboardData{
		Title:        "Agent Console",
		Version:      version,
		AIEnabled:    aiEnabled,
		DefaultRange: "7d",
		Ranges: []RangeOption{
			{Token: "today", Label: "Today"},
			{Token: "7d", Label: "Last 7 days"},
			{Token: "30d", Label: "Last 30 days"},
		},
	}
}

func (d DashboardData) aiMode() string {
	if d.AIEnabled {
		return "ai"
	}
	return "fallback"
}

func (d DashboardData) signals() string {
	return fmt.Sprintf("{insights: {}, range: '%s'}", d.DefaultRange)
}

func getInsights(token string) string {
	return fmt.Sprintf("@get('/sse/insights?range=%s')", token)
}

func selectRange(token string) string {
	return fmt.Sprintf("$range = '%s'; %s", token, getInsights(token))
}
