// Package insights computes KPIs, trend series, rankings and suggested
// actions for a date range over the read-only dataset.
package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agent-console/internal/dataset"
	"agent-console/internal/models"
	"agent-console/internal/observability"
	"agent-console/internal/summarizer"
)

var errEmptySummary = errors.New("summarizer returned an empty summary")

// Service runs the insights pipeline. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	store      *dataset.Store
	summarizer summarizer.Summarizer
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(store *dataset.Store, s summarizer.Summarizer, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		summarizer: s,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}

// Compute builds the full insights response for rangeToken. It never fails:
// summarizer problems degrade to the templated fallback summary.
func (s *Service) Compute(ctx context.Context, rangeToken string) models.Insights {
	r := ParseRange(rangeToken)

	ctx, span := observability.StartSpan(ctx, "insights.compute")
	defer span.End(s.logger)
	span.SetTag("range", string(r))

	window := NewWindow(r, s.anchor())
	orders := window.FilterOrders(s.store.Orders())
	traffic := window.FilterTraffic(s.store.Traffic())
	social := window.FilterSocial(s.store.Social())

	kpis := ComputeKPIs(orders, traffic)
	categories := RankCategories(orders)
	segments := RankSegments(orders)
	series := BuildSeries(window, orders, traffic, social)
	actions := GenerateActions(ActionInput{KPIs: kpis, Categories: categories, Series: series})

	summary := s.summarize(ctx, summarizer.Input{
		Range:      string(r),
		KPIs:       kpis,
		Categories: categories,
		Actions:    actions,
		Series:     series,
	})

	if len(summary.Actions) > 0 {
		actions = summary.Actions
		if len(actions) > MaxActions {
			actions = actions[:MaxActions]
		}
	}

	return models.Insights{
		Range:      string(r),
		WindowDays: window.Len(),
		KPIs:       kpis,
		Categories: categories,
		Segments:   segments,
		Series:     series,
		Actions:    actions,
		AISummary:  summary.Summary,
		AIMode:     summary.Mode,
	}
}

// anchor is the latest traffic date, or today when there is no traffic.
func (s *Service) anchor() time.Time {
	if latest, ok := s.store.LatestTrafficDate(); ok {
		return latest
	}
	return s.now().UTC()
}

type summaryOutcome struct {
	res summarizer.Result
	err error
}

// summarize calls the summarizer with a bounded wait. Errors, panics,
// timeouts and empty results all resolve to the fallback summary.
func (s *Service) summarize(ctx context.Context, in summarizer.Input) summarizer.Result {
	ctx, span := observability.StartSpan(ctx, "summarizer.summarize")
	defer span.End(s.logger)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan summaryOutcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- summaryOutcome{err: fmt.Errorf("summarizer panic: %v", p)}
			}
		}()
		res, err := s.summarizer.Summarize(ctx, in)
		done <- summaryOutcome{res: res, err: err}
	}()

	var out summaryOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = fmt.Errorf("summarizer did not answer within %s: %w", s.timeout, ctx.Err())
	}

	if out.err == nil && out.res.Summary == "" {
		out.err = errEmptySummary
	}
	if out.err != nil {
		span.SetError(out.err)
		s.logger.Warn("summarizer failed, using fallback",
			"range", in.Range,
			"error", out.err,
			"request_id", observability.GetRequestID(ctx),
		)
		return summarizer.Fallback(in)
	}

	if out.res.Mode == "" {
		out.res.Mode = models.ModeAI
	}
	span.SetTag("mode", string(out.res.Mode))
	return out.res
}
