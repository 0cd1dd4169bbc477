package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"agent-console/internal/assistant"
	"agent-console/internal/models"
)

type fakeInsights struct {
	gotRange string
}

func (f *fakeInsights) Compute(_ context.Context, rangeToken string) models.Insights {
	f.gotRange = rangeToken
	return models.Insights{
		Range:      "7d",
		WindowDays: 7,
		KPIs:       models.KpiSet{Revenue: 1234.5, Orders: 12, AOV: 102.88, ConversionPct: 2.5, CartAbandonPct: 40, ReturnRatePct: 8.33},
		Categories: []models.CategoryStat{{Name: "Engine Oil", Revenue: 900, OrderCount: 9, ReturnRatePct: 11.11}},
		Segments:   []models.SegmentStat{{Name: "returning", Revenue: 700, OrderCount: 7}},
		Series:     []models.SeriesPoint{{Date: "2024-01-10", Revenue: 150, Orders: 2}},
		Actions:    []models.Action{{Priority: models.PriorityHigh, Title: "Reduce cart abandonment", Detail: "Cut checkout steps <now>."}},
		AISummary:  "Revenue for the selected range (7d) is €1234.50.",
		AIMode:     models.ModeFallback,
	}
}

type fakeCatalog struct{}

func (fakeCatalog) Products() []models.Product {
	return []models.Product{{SKU: "OIL-1", Name: "Synthetic 5W-30", Category: "Engine Oil", PriceEUR: 39.9}}
}

func (fakeCatalog) Vehicles() []models.Vehicle {
	return []models.Vehicle{{Make: "VW", Model: "Golf", Year: 2018, Engine: "1.6 TDI", Fuel: "Diesel"}}
}

func (fakeCatalog) Stats() map[string]any {
	return map[string]any{"orders": 3}
}

type fakeRecommender struct {
	got assistant.VehicleQuery
}

func (f *fakeRecommender) Recommend(_ context.Context, q assistant.VehicleQuery) assistant.Recommendation {
	f.got = q
	return assistant.Recommendation{Top: []assistant.RecommendedProduct{}, Explanation: "none", Mode: models.ModeFallback}
}

type fakeChat struct {
	got string
}

func (f *fakeChat) Reply(_ context.Context, message string) assistant.ChatReply {
	f.got = message
	return assistant.ChatReply{Reply: "hello", Mode: models.ModeAI}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAPI(t *testing.T) (*APIHandlers, *fakeInsights, *fakeRecommender, *fakeChat) {
	t.Helper()
	ins, rec, chat := &fakeInsights{}, &fakeRecommender{}, &fakeChat{}
	h := NewAPIHandlers(APIDeps{
		Insights:    ins,
		Catalog:     fakeCatalog{},
		Recommender: rec,
		Chat:        chat,
		AIEnabled:   true,
		Version:     "2.3.4",
	}, testLogger())
	return h, ins, rec, chat
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

func TestAPIHandlers_HandleInsights(t *testing.T) {
	h, ins, _, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/insights?range=30d", nil)
	w := httptest.NewRecorder()
	h.HandleInsights(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ins.gotRange != "30d" {
		t.Errorf("range passed to service = %q, want 30d", ins.gotRange)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected cache-control 'no-store', got %q", cc)
	}

	var body map[string]any
	decode(t, w, &body)

	// The insights body is flat, not wrapped in a success envelope.
	for _, key := range []string{"range", "windowDays", "kpis", "categories", "segments", "series", "actions", "aiSummary", "aiMode"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
	if _, ok := body["success"]; ok {
		t.Error("insights response should not carry a success envelope")
	}
	kpis := body["kpis"].(map[string]any)
	if kpis["cartAbandonPct"] != 40.0 || kpis["orders"] != 12.0 {
		t.Errorf("unexpected kpis: %v", kpis)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h, _, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthResponse
	decode(t, w, &body)

	if body.Status != "healthy" || body.Version != "2.3.4" || !body.AI {
		t.Errorf("unexpected health body: %+v", body)
	}
	if body.Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestAPIHandlers_Collections(t *testing.T) {
	h, _, _, _ := newTestAPI(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		want    string
	}{
		{"stats", h.HandleStats, "/admin/stats", `{"orders":3}`},
		{"products", h.HandleProducts, "/api/products", `"sku":"OIL-1"`},
		{"vehicles", h.HandleVehicles, "/api/vehicles", `"year":2018`},
		{"datasets", h.HandleDatasets, "/api/datasets", `"internal":["orders.json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body %q should contain %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestAPIHandlers_HandleRecommend(t *testing.T) {
	h, _, rec, _ := newTestAPI(t)

	body := `{"make":"VW","model":"Golf","year":2018,"engine":"1.6 TDI","fuel":"Diesel","viscosityPref":"5W-30"}`
	w := httptest.NewRecorder()
	h.HandleRecommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	want := assistant.VehicleQuery{Make: "VW", Model: "Golf", Year: "2018", Engine: "1.6 TDI", Fuel: "Diesel", ViscosityPref: "5W-30"}
	if diff := cmp.Diff(want, rec.got); diff != "" {
		t.Errorf("query (-want +got):\n%s", diff)
	}

	var got assistant.Recommendation
	decode(t, w, &got)
	if got.Mode != models.ModeFallback || got.Top == nil {
		t.Errorf("unexpected recommendation: %+v", got)
	}
}

func TestAPIHandlers_RequestFaults(t *testing.T) {
	h, _, _, chat := newTestAPI(t)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		body       string
		wantCode   string
		wantStatus int
	}{
		{"recommend invalid json", h.HandleRecommend, `{"make":`, "BAD_REQUEST", http.StatusBadRequest},
		{"chat invalid json", h.HandleChat, `not json`, "BAD_REQUEST", http.StatusBadRequest},
		{"recommend oversized body", h.HandleRecommend, `{"make":"` + strings.Repeat("x", maxRequestBytes) + `"}`, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"chat oversized body", h.HandleChat, `{"message":"` + strings.Repeat("x", maxRequestBytes) + `"}`, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodPost, "/api/x", strings.NewReader(tt.body)))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			decode(t, w, &resp)
			if resp.Success || resp.Error.Code != tt.wantCode {
				t.Errorf("unexpected error envelope: %+v", resp)
			}
		})
	}

	if chat.got != "" {
		t.Errorf("chat should not be called for invalid requests, got %q", chat.got)
	}
}

func TestAPIHandlers_HandleChat(t *testing.T) {
	h, _, _, chat := newTestAPI(t)

	w := httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"how are sales?"}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if chat.got != "how are sales?" {
		t.Errorf("message = %q", chat.got)
	}

	var got assistant.ChatReply
	decode(t, w, &got)
	if got.Reply != "hello" || got.Mode != models.ModeAI {
		t.Errorf("unexpected reply: %+v", got)
	}
}

func TestAPIHandlers_HandleChat_BlankMessageReachesAssistant(t *testing.T) {
	h, _, _, chat := newTestAPI(t)
	chat.got = "unset"

	w := httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if chat.got != "" {
		t.Errorf("assistant should receive the empty message, got %q", chat.got)
	}
}
