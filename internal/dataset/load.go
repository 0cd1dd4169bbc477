package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"agent-console/internal/models"
)

const (
	ordersFile   = "orders.json"
	trafficFile  = "traffic.json"
	socialFile   = "social.json"
	productsFile = "products.json"
	vehiclesFile = "vehicles.json"
)

// Load reads the dataset files from dir concurrently. Any unreadable or
// malformed required file fails the whole load.
func Load(ctx context.Context, dir string, logger *slog.Logger) (*Store, error) {
	start := time.Now()
	logger.Info("loading dataset", "dir", dir)

	var r Records
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		r.Orders, err = readFile[models.OrderRecord](ctx, filepath.Join(dir, ordersFile), true)
		return err
	})
	g.Go(func() (err error) {
		r.Traffic, err = readFile[models.TrafficRecord](ctx, filepath.Join(dir, trafficFile), true)
		return err
	})
	g.Go(func() (err error) {
		r.Social, err = readFile[models.SocialRecord](ctx, filepath.Join(dir, socialFile), true)
		return err
	})
	g.Go(func() (err error) {
		r.Products, err = readFile[models.Product](ctx, filepath.Join(dir, productsFile), false)
		return err
	})
	g.Go(func() (err error) {
		r.Vehicles, err = readFile[models.Vehicle](ctx, filepath.Join(dir, vehiclesFile), false)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	store, err := New(r)
	if err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}

	logger.Info("dataset loaded",
		"orders", len(store.orders),
		"traffic", len(store.traffic),
		"social", len(store.social),
		"products", len(store.products),
		"vehicles", len(store.vehicles),
		"duration", time.Since(start),
	)
	return store, nil
}

func readFile[T any](ctx context.Context, path string, required bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return records, nil
}
