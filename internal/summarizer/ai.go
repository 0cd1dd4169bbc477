package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"agent-console/internal/llm"
	"agent-console/internal/models"
)

const (
	maxPromptSeries = 7
	maxPayloadChars = 25000
	maxActions      = 5
)

var ErrMalformedResponse = errors.New("malformed summarizer response")

const instructions = "You are an e-commerce AI agent. Summarize the KPI and trend data in 3-5 sentences " +
	"for an executive audience. Suggest at most 3 actions. Write short, plain English. Never ask for personal data. " +
	`Reply with a JSON object: {"summary": string, "actions": [{"priority": "High"|"Medium"|"Low", "title": string, "detail": string}]}.`

// Completer is the part of the language-model client the summarizer needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type AI struct {
	llm Completer
}

func NewAI(c Completer) *AI {
	return &AI{llm: c}
}

func (a *AI) Summarize(ctx context.Context, in Input) (Result, error) {
	prompt, err := buildPrompt(in)
	if err != nil {
		return Result{}, err
	}

	text, err := a.llm.Complete(ctx, llm.Request{
		Instructions: instructions,
		Input:        prompt,
		JSON:         true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("summarize: %w", err)
	}

	return parseResult(text)
}

func buildPrompt(in Input) (string, error) {
	kpis, err := json.Marshal(in.KPIs)
	if err != nil {
		return "", fmt.Errorf("marshal kpis: %w", err)
	}
	categories, err := json.Marshal(in.Categories)
	if err != nil {
		return "", fmt.Errorf("marshal categories: %w", err)
	}
	actions, err := json.Marshal(in.Actions)
	if err != nil {
		return "", fmt.Errorf("marshal actions: %w", err)
	}

	recent := in.Series
	if len(recent) > maxPromptSeries {
		recent = recent[len(recent)-maxPromptSeries:]
	}
	series, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("marshal series: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Range: %s\n", in.Range)
	fmt.Fprintf(&b, "KPIs: %s\n", kpis)
	fmt.Fprintf(&b, "Categories: %s\n", categories)
	fmt.Fprintf(&b, "Series (last %d days): %s\n", maxPromptSeries, llm.Truncate(string(series), maxPayloadChars))
	fmt.Fprintf(&b, "Actions: %s\n", actions)
	return b.String(), nil
}

type aiAction struct {
	Priority string `json:"priority"`
	Prio     string `json:"prio"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

type aiPayload struct {
	Summary string     `json:"summary"`
	Actions []aiAction `json:"actions"`
}

// parseResult accepts only a JSON object with a non-empty summary. Invalid
// replacement actions are dropped rather than failing the whole result.
func parseResult(text string) (Result, error) {
	var payload aiPayload
	if err := json.Unmarshal([]byte(llm.StripCodeFence(text)), &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		return Result{}, fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}

	res := Result{Summary: summary, Mode: models.ModeAI}
	for _, a := range payload.Actions {
		p := a.Priority
		if p == "" {
			p = a.Prio
		}
		priority, ok := normalizePriority(p)
		title := strings.TrimSpace(a.Title)
		if !ok || title == "" {
			continue
		}
		res.Actions = append(res.Actions, models.Action{
			Priority: priority,
			Title:    title,
			Detail:   strings.TrimSpace(a.Detail),
		})
		if len(res.Actions) == maxActions {
			break
		}
	}
	return res, nil
}

func normalizePriority(p string) (models.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return models.PriorityHigh, true
	case "medium":
		return models.PriorityMedium, true
	case "low":
		return models.PriorityLow, true
	default:
		return "", false
	}
}
