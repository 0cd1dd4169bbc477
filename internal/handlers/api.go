package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"agent-console/internal/assistant"
	"agent-console/internal/errors"
	"agent-console/internal/models"
	"agent-console/internal/observability"
)

const (
	maxRequestBytes = 64 << 10
)

// InsightsComputer produces the insights response for a range token.
type InsightsComputer interface {
	Compute(ctx context.Context, rangeToken string) models.Insights
}

// Catalog is the read-only view of the dataset the API exposes.
type Catalog interface {
	Products() []models.Product
	Vehicles() []models.Vehicle
	Stats() map[string]any
}

type Recommender interface {
	Recommend(ctx context.Context, q assistant.VehicleQuery) assistant.Recommendation
}

type Chatter interface {
	Reply(ctx context.Context, message string) assistant.ChatReply
}

type APIHandlers struct {
	insights    InsightsComputer
	catalog     Catalog
	recommender Recommender
	chat        Chatter
	aiEnabled   bool
	version     string
	logger      *slog.Logger
}

type APIDeps struct {
	Insights    InsightsComputer
	Catalog     Catalog
	Recommender Recommender
	Chat        Chatter
	AIEnabled   bool
	// Version is reported by the health endpoints.
	Version string
}

func NewAPIHandlers(deps APIDeps, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		insights:    deps.Insights,
		catalog:     deps.Catalog,
		recommender: deps.Recommender,
		chat:        deps.Chat,
		aiEnabled:   deps.AIEnabled,
		version:     deps.Version,
		logger:      logger,
	}
}

func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	data := h.insights.Compute(r.Context(), r.URL.Query().Get("range"))

	headers := map[string]string{
		"Cache-Control": "no-store",
	}

	h.write(w, r, data, headers)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	AI        bool   `json:"ai"`
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   h.version,
		AI:        h.aiEnabled,
	}, nil)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.catalog.Stats(), nil)
}

type datasetCatalog struct {
	Internal []string `json:"internal"`
	External []string `json:"external"`
	Note     string   `json:"note"`
}

var datasets = datasetCatalog{
	Internal: []string{
		"orders.json: order history (date, category, customer segment, revenue, returned)",
		"traffic.json: daily sessions and funnel counts (add to cart, checkouts, purchases)",
		"products.json: product catalog (category, viscosity, price, stock)",
		"vehicles.json: vehicle compatibility reference",
	},
	External: []string{
		"social.json: daily social clicks and engagements (mock)",
		"trends (mock): demand signal per category",
		"competitor prices (mock): competitor pricing and campaign signal",
	},
	Note: "Data shown here is simulated for demo purposes. A production deployment would pull it live from the shop platform, analytics and ad APIs.",
}

func (h *APIHandlers) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, datasets, map[string]string{"Cache-Control": "public, max-age=300"})
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.catalog.Products(), map[string]string{"Cache-Control": "public, max-age=300"})
}

func (h *APIHandlers) HandleVehicles(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.catalog.Vehicles(), map[string]string{"Cache-Control": "public, max-age=300"})
}

func (h *APIHandlers) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var q assistant.VehicleQuery
	if err := decodeBody(w, r, &q); err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, r, h.recommender.Recommend(r.Context(), q), nil)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *APIHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, r, h.chat.Reply(r.Context(), req.Message), nil)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(err, errors.CodeTooLarge, "request body too large").
				WithDetails(fmt.Sprintf("limit: %d bytes", tooLarge.Limit))
		}
		return errors.BadRequestWrap(err, "invalid JSON body")
	}
	return nil
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, data any, headers map[string]string) {
	if err := errors.WriteJSON(w, data, headers); err != nil {
		h.logger.Error("write response",
			"error", err,
			"path", r.URL.Path,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}
