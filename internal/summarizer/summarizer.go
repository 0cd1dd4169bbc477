// Package summarizer turns computed insights into a short narrative.
//
// Two variants exist and one is picked at startup: Unavailable, used when no
// model credential is configured, and AI, which calls a language model and may
// fail. Callers fall back to Fallback on any AI error.
package summarizer

import (
	"context"
	"fmt"
	"strconv"

	"agent-console/internal/models"
)

type Input struct {
	Range      string
	KPIs       models.KpiSet
	Categories []models.CategoryStat
	Actions    []models.Action
	Series     []models.SeriesPoint
}

type Result struct {
	Summary string
	Mode    models.SummaryMode
	// Actions, when non-empty, replaces the generated action list.
	Actions []models.Action
}

type Summarizer interface {
	Summarize(ctx context.Context, in Input) (Result, error)
}

// Unavailable is the variant used without a model credential.
type Unavailable struct{}

func (Unavailable) Summarize(_ context.Context, in Input) (Result, error) {
	return Fallback(in), nil
}

// Fallback builds the deterministic templated summary. It never returns an
// empty summary.
func Fallback(in Input) Result {
	topCategory := "n/a"
	if len(in.Categories) > 0 && in.Categories[0].Name != "" {
		topCategory = in.Categories[0].Name
	}
	nextAction := "none"
	if len(in.Actions) > 0 && in.Actions[0].Title != "" {
		nextAction = in.Actions[0].Title
	}

	summary := fmt.Sprintf(
		"Revenue for the selected range (%s) is €%.2f. Orders: %d. Conversion: %s%%. "+
			"Cart abandonment: %s%%. Top category: %s. Next action: %s.",
		in.Range,
		in.KPIs.Revenue,
		in.KPIs.Orders,
		formatPct(in.KPIs.ConversionPct),
		formatPct(in.KPIs.CartAbandonPct),
		topCategory,
		nextAction,
	)

	return Result{Summary: summary, Mode: models.ModeFallback}
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
