package insights

import (
	"fmt"
	"strconv"

	"agent-console/internal/models"
)

const (
	MaxActions = 5

	momentumThresholdPct    = 8.0
	cartAbandonThresholdPct = 22.0
	returnRateThresholdPct  = 7.0
)

// ActionInput is what the action rules inspect.
type ActionInput struct {
	KPIs       models.KpiSet
	Categories []models.CategoryStat
	Series     []models.SeriesPoint
}

// rule produces at most one action.
type rule struct {
	name string
	fire func(ActionInput) (models.Action, bool)
}

// rules fire in this order; the output keeps it.
var rules = []rule{
	{name: "revenue_momentum", fire: revenueMomentum},
	{name: "cart_abandonment", fire: cartAbandonment},
	{name: "return_risk", fire: returnRisk},
	{name: "feature_top_category", fire: featureTopCategory},
	{name: "social_content_plan", fire: socialContentPlan},
}

// GenerateActions evaluates the rules in order and caps the result at
// MaxActions. The list is not re-sorted by priority.
func GenerateActions(in ActionInput) []models.Action {
	actions := make([]models.Action, 0, len(rules))
	for _, r := range rules {
		if a, ok := r.fire(in); ok {
			actions = append(actions, a)
		}
	}
	if len(actions) > MaxActions {
		actions = actions[:MaxActions]
	}
	return actions
}

// RevenueDeltaPct is the percentage change in revenue between the last two
// series points. It is 0 with fewer than two points or no prior revenue.
func RevenueDeltaPct(series []models.SeriesPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	last, prev := series[len(series)-1].Revenue, series[len(series)-2].Revenue
	if prev <= 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

func revenueMomentum(in ActionInput) (models.Action, bool) {
	delta := RevenueDeltaPct(in.Series)
	if delta <= momentumThresholdPct {
		return models.Action{}, false
	}
	return models.Action{
		Priority: models.PriorityHigh,
		Title:    "Sustain campaign momentum",
		Detail:   fmt.Sprintf("Revenue is up +%.1f%% on the previous day. Rerun the weekend campaign for the same audience.", delta),
	}, true
}

func cartAbandonment(in ActionInput) (models.Action, bool) {
	if in.KPIs.CartAbandonPct <= cartAbandonThresholdPct {
		return models.Action{}, false
	}
	return models.Action{
		Priority: models.PriorityHigh,
		Title:    "Reduce cart abandonment",
		Detail:   fmt.Sprintf("Cart abandonment is %s%%. Cut checkout steps and surface trust badges.", formatPct(in.KPIs.CartAbandonPct)),
	}, true
}

func returnRisk(in ActionInput) (models.Action, bool) {
	if in.KPIs.ReturnRatePct <= returnRateThresholdPct {
		return models.Action{}, false
	}
	return models.Action{
		Priority: models.PriorityMedium,
		Title:    "Reduce return risk",
		Detail:   fmt.Sprintf("Return rate is %s%%. Strengthen compatibility and usage notes on product pages.", formatPct(in.KPIs.ReturnRatePct)),
	}, true
}

func featureTopCategory(in ActionInput) (models.Action, bool) {
	if len(in.Categories) == 0 {
		return models.Action{}, false
	}
	top := in.Categories[0].Name
	return models.Action{
		Priority: models.PriorityMedium,
		Title:    fmt.Sprintf("Feature the %s category", top),
		Detail:   fmt.Sprintf("Highest revenue: %s. Move it into the home page recommendation blocks.", top),
	}, true
}

func socialContentPlan(ActionInput) (models.Action, bool) {
	return models.Action{
		Priority: models.PriorityLow,
		Title:    "Build a 7-day social content plan",
		Detail:   "Draft a 7-day Reels/post plan with the social media agent and order it by the best posting hours.",
	}, true
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
