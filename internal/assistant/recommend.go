// Package assistant serves the product recommendation and chat endpoints.
// Both use the language model when one is configured and fall back to
// deterministic answers otherwise.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"agent-console/internal/llm"
	"agent-console/internal/models"
)

const (
	maxRecommendations = 3
	maxCatalogChars    = 25000

	viscosityScore  = 4
	vehicleKeyScore = 6
	priceBandScore  = 1
	priceBandMin    = 25.0
	priceBandMax    = 80.0
)

// Completer is the part of the language-model client the assistant needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type VehicleQuery struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Engine        string `json:"engine"`
	Fuel          string `json:"fuel"`
	ViscosityPref string `json:"viscosityPref"`
}

// UnmarshalJSON accepts year as a number or a string.
func (q *VehicleQuery) UnmarshalJSON(b []byte) error {
	type alias VehicleQuery
	var raw struct {
		alias
		Year json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*q = VehicleQuery(raw.alias)
	q.Year = strings.Trim(string(raw.Year), `"`)
	if q.Year == "null" {
		q.Year = ""
	}
	return nil
}

func (q VehicleQuery) key() string {
	parts := []string{q.Make, q.Model, q.Year, q.Engine, q.Fuel}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

type RecommendedProduct struct {
	models.Product
	Reason string `json:"reason,omitempty"`
}

type Recommendation struct {
	Top         []RecommendedProduct `json:"top"`
	Explanation string               `json:"explanation"`
	Mode        models.SummaryMode   `json:"mode"`
}

type Recommender struct {
	products []models.Product
	category string
	llm      Completer
	logger   *slog.Logger
}

// NewRecommender builds a recommender over the catalog. A nil Completer
// selects the rule-based path for every request.
func NewRecommender(products []models.Product, category string, c Completer, logger *slog.Logger) *Recommender {
	return &Recommender{products: products, category: category, llm: c, logger: logger}
}

func (r *Recommender) Recommend(ctx context.Context, q VehicleQuery) Recommendation {
	if r.llm == nil {
		return r.ruleBased(q)
	}

	rec, err := r.aiRecommend(ctx, q)
	if err != nil {
		r.logger.Warn("ai recommendation failed, using rules", "error", err)
		return r.ruleBased(q)
	}
	return rec
}

type scored struct {
	product models.Product
	score   int
}

func (r *Recommender) ruleBased(q VehicleQuery) Recommendation {
	vehicleKey := q.key()

	var candidates []scored
	for _, p := range r.products {
		if p.Category != r.category {
			continue
		}
		score := 0
		if q.ViscosityPref != "" && strings.EqualFold(p.Viscosity, q.ViscosityPref) {
			score += viscosityScore
		}
		if slices.ContainsFunc(p.RecommendedFor, func(v string) bool { return strings.ToLower(v) == vehicleKey }) {
			score += vehicleKeyScore
		}
		if p.PriceEUR >= priceBandMin && p.PriceEUR <= priceBandMax {
			score += priceBandScore
		}
		candidates = append(candidates, scored{product: p, score: score})
	}

	slices.SortStableFunc(candidates, func(a, b scored) int { return b.score - a.score })
	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	rec := Recommendation{Top: make([]RecommendedProduct, 0, len(candidates)), Mode: models.ModeFallback}
	for _, c := range candidates {
		rec.Top = append(rec.Top, RecommendedProduct{Product: c.product})
	}
	if len(rec.Top) > 0 {
		rec.Explanation = fmt.Sprintf("The %d best matches for the vehicle are listed (rule-based compatibility and viscosity).", len(rec.Top))
	} else {
		rec.Explanation = "No matching product found. Please check the vehicle details."
	}
	return rec
}

const recommendInstructions = "You are an e-commerce recommendation agent. Pick the 3 best products for the vehicle. " +
	"Use only the given product list. Write short English. " +
	`Reply with a JSON object: {"top": [{"sku": string, "reason": string}], "explanation": string}.`

type aiRecommendation struct {
	Top []struct {
		SKU    string `json:"sku"`
		Reason string `json:"reason"`
	} `json:"top"`
	Explanation string `json:"explanation"`
}

func (r *Recommender) aiRecommend(ctx context.Context, q VehicleQuery) (Recommendation, error) {
	catalog, err := json.Marshal(r.products)
	if err != nil {
		return Recommendation{}, fmt.Errorf("marshal catalog: %w", err)
	}

	viscosity := q.ViscosityPref
	if viscosity == "" {
		viscosity = "none"
	}
	input := fmt.Sprintf("Vehicle: %s %s %s %s %s\nViscosity preference: %s\n\nProducts JSON:\n%s\n\nRecommend the best 3 products.",
		q.Make, q.Model, q.Year, q.Engine, q.Fuel, viscosity, llm.Truncate(string(catalog), maxCatalogChars))

	text, err := r.llm.Complete(ctx, llm.Request{Instructions: recommendInstructions, Input: input, JSON: true})
	if err != nil {
		return Recommendation{}, err
	}

	var parsed aiRecommendation
	if err := json.Unmarshal([]byte(llm.StripCodeFence(text)), &parsed); err != nil {
		return Recommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}

	bySKU := make(map[string]models.Product, len(r.products))
	for _, p := range r.products {
		bySKU[p.SKU] = p
	}

	rec := Recommendation{Top: []RecommendedProduct{}, Explanation: parsed.Explanation, Mode: models.ModeAI}
	for _, item := range parsed.Top {
		p, ok := bySKU[item.SKU]
		if !ok {
			continue
		}
		rec.Top = append(rec.Top, RecommendedProduct{Product: p, Reason: item.Reason})
		if len(rec.Top) == maxRecommendations {
			break
		}
	}
	if rec.Explanation == "" {
		rec.Explanation = "AI recommendation ready."
	}
	return rec, nil
}

