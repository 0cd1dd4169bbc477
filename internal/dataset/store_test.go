package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agent-console/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func validFiles() map[string]string {
	return map[string]string{
		ordersFile: `[
			{"date":"2024-01-01","revenue_eur":100,"category":"Oil","customer_segment":"Retail","returned":false,"channel":"web"},
			{"date":"2024-01-02","revenue_eur":45.5,"category":"Filter","customer_segment":"Fleet","returned":true}
		]`,
		trafficFile: `[
			{"date":"2024-01-02","sessions":20,"add_to_cart":6,"checkouts":5,"purchases":2},
			{"date":"2024-01-01","sessions":10,"add_to_cart":5,"checkouts":4,"purchases":1}
		]`,
		socialFile: `[{"date":"2024-01-01","clicks":7,"engagements":30}]`,
	}
}

func TestLoad_Valid(t *testing.T) {
	dir := writeDataset(t, validFiles())

	store, err := Load(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(store.Orders()) != 2 || len(store.Traffic()) != 2 || len(store.Social()) != 1 {
		t.Errorf("unexpected counts: %v", store.Stats())
	}
	if store.Orders()[1].Revenue != 45.5 || !store.Orders()[1].Returned {
		t.Errorf("order decoded wrong: %+v", store.Orders()[1])
	}

	// Catalog files are optional.
	if store.Products() == nil || len(store.Products()) != 0 {
		t.Errorf("Products() = %v, want empty non-nil", store.Products())
	}

	latest, ok := store.LatestTrafficDate()
	if !ok {
		t.Fatal("LatestTrafficDate() reported no traffic")
	}
	if got := latest.Format(models.DateLayout); got != "2024-01-02" {
		t.Errorf("LatestTrafficDate() = %s, want 2024-01-02 (max, not last record)", got)
	}
}

func TestLoad_WithCatalog(t *testing.T) {
	files := validFiles()
	files[productsFile] = `[{"sku":"OIL-1","name":"5W-30 Synthetic","category":"Engine Oil","viscosity":"5W-30","priceEUR":39.9,"stock":12}]`
	files[vehiclesFile] = `[{"make":"VW","model":"Golf","year":2018,"engine":"1.6 TDI","fuel":"Diesel"}]`
	dir := writeDataset(t, files)

	store, err := Load(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(store.Products()) != 1 || *store.Products()[0].Stock != 12 {
		t.Errorf("Products() = %+v", store.Products())
	}
	if len(store.Vehicles()) != 1 || store.Vehicles()[0].Year != 2018 {
		t.Errorf("Vehicles() = %+v", store.Vehicles())
	}
}

func TestLoad_StartupFaults(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{
			name:    "missing orders",
			mutate:  func(f map[string]string) { delete(f, ordersFile) },
			wantErr: "read orders.json",
		},
		{
			name:    "malformed traffic",
			mutate:  func(f map[string]string) { f[trafficFile] = `{"date":` },
			wantErr: "decode traffic.json",
		},
		{
			name:    "bad date",
			mutate:  func(f map[string]string) { f[socialFile] = `[{"date":"01/02/2024","clicks":1,"engagements":1}]` },
			wantErr: "social.json[0]",
		},
		{
			name: "negative sessions",
			mutate: func(f map[string]string) {
				f[trafficFile] = `[{"date":"2024-01-01","sessions":-1,"add_to_cart":0,"checkouts":0,"purchases":0}]`
			},
			wantErr: "non-negative",
		},
		{
			name:    "malformed optional catalog",
			mutate:  func(f map[string]string) { f[productsFile] = `not json` },
			wantErr: "decode products.json",
		},
		{
			name:    "product without sku",
			mutate:  func(f map[string]string) { f[productsFile] = `[{"name":"x"}]` },
			wantErr: "sku is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := validFiles()
			tt.mutate(files)
			dir := writeDataset(t, files)

			_, err := Load(context.Background(), dir, testLogger())
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	dir := writeDataset(t, validFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, dir, testLogger()); err == nil {
		t.Error("Load() with cancelled context should fail")
	}
}

func TestNew_Empty(t *testing.T) {
	store, err := New(Records{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.LatestTrafficDate(); ok {
		t.Error("empty store should report no traffic")
	}
	stats := store.Stats()
	if stats["orders"] != 0 {
		t.Errorf("stats = %v", stats)
	}
	if _, ok := stats["traffic_to"]; ok {
		t.Error("traffic span should be absent without traffic")
	}
}

func TestStats_TrafficSpan(t *testing.T) {
	store, err := New(Records{Traffic: []models.TrafficRecord{
		{Date: "2024-03-05"}, {Date: "2024-03-01"}, {Date: "2024-03-03"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	stats := store.Stats()
	if stats["traffic_from"] != "2024-03-01" || stats["traffic_to"] != "2024-03-05" {
		t.Errorf("stats = %v", stats)
	}
	if loaded, ok := stats["loaded_at"].(time.Time); !ok || loaded.IsZero() {
		t.Error("loaded_at should be set")
	}
}
